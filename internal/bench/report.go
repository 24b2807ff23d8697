package bench

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// WriteTable renders results as a table, one row per workload and
// implementation, with the speed of each row relative to the first
// implementation of its workload.
func WriteTable(w io.Writer, results []Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Workload", "Impl", "Ops", "ns/op", "Relative", "Max len", "Checksum"})
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	var base float64
	for i, r := range results {
		if i == 0 || results[i-1].Workload != r.Workload {
			base = r.NsPerOp()
		}
		rel := "-"
		if base > 0 {
			rel = fmt.Sprintf("%.2fx", r.NsPerOp()/base)
		}
		table.Append([]string{
			r.Workload,
			r.Impl,
			strconv.Itoa(r.Ops),
			fmt.Sprintf("%.2f", r.NsPerOp()),
			rel,
			strconv.Itoa(r.MaxLen),
			fmt.Sprintf("%016x", r.Checksum),
		})
	}
	table.Render()
}
