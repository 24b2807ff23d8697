package bench

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

// checksum folds every value a workload observes into one xxh3 digest. Two
// queues fed the same operations must end with the same sum.
type checksum struct {
	h   *xxh3.Hasher
	buf [8]byte
}

func newChecksum() *checksum {
	return &checksum{h: xxh3.New()}
}

func (c *checksum) add(v uint64) {
	binary.LittleEndian.PutUint64(c.buf[:], v)
	_, _ = c.h.Write(c.buf[:])
}

func (c *checksum) sum() uint64 { return c.h.Sum64() }
