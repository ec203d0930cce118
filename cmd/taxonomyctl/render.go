package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// table writes aligned columns
type table struct {
	w *tabwriter.Writer
}

func (t *table) header(cols ...string) { t.row(cols...) }

func (t *table) row(cols ...string) {
	fmt.Fprintln(t.w, strings.Join(cols, "\t"))
}

// render writes v as indented JSON, or as a table filled by fill
func render(out io.Writer, format string, v interface{}, fill func(*table)) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	t := &table{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
	fill(t)
	return t.w.Flush()
}
