package output

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"
)

// Tabler is implemented by results with a natural table layout.
type Tabler interface {
	Table() *Table
}

// TableFormatter writes aligned columns. Tablers and flat maps are rendered
// as tables; anything else falls back to JSON.
type TableFormatter struct {
	NoHeaders bool
}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case nil:
		return nil
	case *Table:
		return v.render(w, f.NoHeaders)
	case Tabler:
		return v.Table().render(w, f.NoHeaders)
	case map[string]any:
		return MapTable(v).render(w, f.NoHeaders)
	case map[string]string:
		t := &Table{Headers: []string{"KEY", "VALUE"}}
		for _, k := range slices.Sorted(maps.Keys(v)) {
			t.AddRow(k, Cell(v[k]))
		}
		return t.render(w, f.NoHeaders)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Table is rows of cells under optional headers.
type Table struct {
	Headers []string
	Rows    [][]string
}

// NewTable creates a table with headers.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table with headers.
func (t *Table) Render(w io.Writer) error {
	return t.render(w, false)
}

func (t *Table) render(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// MapTable renders a map as sorted KEY/VALUE rows.
func MapTable(m map[string]any) *Table {
	t := NewTable("KEY", "VALUE")
	for _, k := range slices.Sorted(maps.Keys(m)) {
		t.AddRow(k, Cell(m[k]))
	}
	return t
}

// Cell formats a single value for a table cell. Empty values print as "-";
// nested values print as compact JSON.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case *string:
		if x == nil {
			return "-"
		}
		return Cell(*x)
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		return x.Format(time.DateTime)
	case fmt.Stringer:
		return x.String()
	case bool, int, int64, float64:
		return fmt.Sprint(x)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
