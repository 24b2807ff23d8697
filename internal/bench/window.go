package bench

import (
	"github.com/dolthub/maphash"
	"github.com/dolthub/swiss"
)

const windowShards = 8

// windowSet is the membership set of the window workload, split into
// swiss maps by a seeded hash of the key.
type windowSet struct {
	hasher maphash.Hasher[uint64]
	shards [windowShards]*swiss.Map[uint64, struct{}]
}

func newWindowSet(capacity int) *windowSet {
	s := &windowSet{hasher: maphash.NewHasher[uint64]()}
	per := uint32(max(capacity/windowShards, 8))
	for i := range s.shards {
		s.shards[i] = swiss.NewMap[uint64, struct{}](per)
	}
	return s
}

func (s *windowSet) shard(k uint64) *swiss.Map[uint64, struct{}] {
	return s.shards[s.hasher.Hash(k)%windowShards]
}

func (s *windowSet) has(k uint64) bool {
	_, ok := s.shard(k).Get(k)
	return ok
}

func (s *windowSet) add(k uint64) { s.shard(k).Put(k, struct{}{}) }

func (s *windowSet) remove(k uint64) { s.shard(k).Delete(k) }

// counts returns the number of keys held by each shard.
func (s *windowSet) counts() []int {
	out := make([]int, windowShards)
	for i, m := range s.shards {
		out[i] = m.Count()
	}
	return out
}
