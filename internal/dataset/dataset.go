package dataset

import (
	"fmt"

	"github.com/brent-soan/CSADPRG/internal/schema"
)

// Series is a named, typed column. Its values are never modified after
// construction, so Series may be shared between datasets.
type Series struct {
	name   schema.Column
	typ    schema.Type
	values []Value
}

// NewSeries copies values into a new series.
func NewSeries(name schema.Column, typ schema.Type, values []Value) Series {
	v := make([]Value, len(values))
	copy(v, values)
	return Series{name: name, typ: typ, values: v}
}

// Name returns the column name.
func (s Series) Name() schema.Column { return s.name }

// Type returns the declared column type.
func (s Series) Type() schema.Type { return s.typ }

// Len returns the number of values.
func (s Series) Len() int { return len(s.values) }

// At returns the value at row i.
func (s Series) At(i int) Value { return s.values[i] }

// Values returns a copy of the series values.
func (s Series) Values() []Value {
	out := make([]Value, len(s.values))
	copy(out, s.values)
	return out
}

func (s Series) take(rows []int) Series {
	v := make([]Value, len(rows))
	for i, r := range rows {
		v[i] = s.values[r]
	}
	return Series{name: s.name, typ: s.typ, values: v}
}

// Dataset is an immutable row-aligned table. All operations return a new
// Dataset and leave the receiver untouched.
type Dataset struct {
	columns []Series
	index   map[schema.Column]int
	rows    int
}

// New assembles a dataset. Columns must have equal length and unique names.
func New(columns ...Series) (*Dataset, error) {
	d := &Dataset{
		columns: make([]Series, 0, len(columns)),
		index:   make(map[schema.Column]int, len(columns)),
	}
	for i, c := range columns {
		if _, dup := d.index[c.name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.name)
		}
		if i == 0 {
			d.rows = c.Len()
		} else if c.Len() != d.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", c.name, c.Len(), d.rows)
		}
		d.index[c.name] = len(d.columns)
		d.columns = append(d.columns, c)
	}
	return d, nil
}

// MustNew is New for statically known inputs; it panics on error.
func MustNew(columns ...Series) *Dataset {
	d, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the row count.
func (d *Dataset) Len() int { return d.rows }

// Width returns the column count.
func (d *Dataset) Width() int { return len(d.columns) }

// Columns returns the column names in order.
func (d *Dataset) Columns() []schema.Column {
	out := make([]schema.Column, len(d.columns))
	for i, c := range d.columns {
		out[i] = c.name
	}
	return out
}

// Has reports whether column c exists.
func (d *Dataset) Has(c schema.Column) bool {
	_, ok := d.index[c]
	return ok
}

// Series returns column c.
func (d *Dataset) Series(c schema.Column) (Series, bool) {
	i, ok := d.index[c]
	if !ok {
		return Series{}, false
	}
	return d.columns[i], true
}

// Value returns the cell at (row, c). Unknown columns read as Null.
func (d *Dataset) Value(row int, c schema.Column) Value {
	i, ok := d.index[c]
	if !ok {
		return Null()
	}
	return d.columns[i].values[row]
}

// Row is a read-only view of one row.
type Row struct {
	d *Dataset
	i int
}

// Index returns the row position.
func (r Row) Index() int { return r.i }

// Get returns the value of column c in this row.
func (r Row) Get(c schema.Column) Value { return r.d.Value(r.i, c) }

// Row returns a view of row i.
func (d *Dataset) Row(i int) Row { return Row{d: d, i: i} }

// Require returns an error naming every column in cols that d lacks.
func (d *Dataset) Require(cols ...schema.Column) error {
	var missing []schema.Column
	for _, c := range cols {
		if !d.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns %v", missing)
	}
	return nil
}

// Select returns only cols, in the given order.
func (d *Dataset) Select(cols ...schema.Column) (*Dataset, error) {
	out := make([]Series, 0, len(cols))
	for _, c := range cols {
		s, ok := d.Series(c)
		if !ok {
			return nil, fmt.Errorf("select: unknown column %q", c)
		}
		out = append(out, s)
	}
	return New(out...)
}

// Drop returns d without cols. Unknown names are ignored.
func (d *Dataset) Drop(cols ...schema.Column) *Dataset {
	drop := make(map[schema.Column]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}
	keep := make([]Series, 0, len(d.columns))
	for _, s := range d.columns {
		if !drop[s.name] {
			keep = append(keep, s)
		}
	}
	out := MustNew(keep...)
	if len(keep) == 0 {
		out.rows = d.rows
	}
	return out
}

// Take returns the rows at the given positions, in that order.
func (d *Dataset) Take(rows []int) *Dataset {
	cols := make([]Series, len(d.columns))
	for i, s := range d.columns {
		cols[i] = s.take(rows)
	}
	out := MustNew(cols...)
	out.rows = len(rows)
	return out
}

// Filter keeps the rows for which keep returns true.
func (d *Dataset) Filter(keep func(Row) bool) *Dataset {
	rows := make([]int, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if keep(d.Row(i)) {
			rows = append(rows, i)
		}
	}
	return d.Take(rows)
}

// Head returns the first n rows (all rows when n exceeds the length).
func (d *Dataset) Head(n int) *Dataset {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return d.Take(rows)
}

// WithColumn replaces the column of the same name in place, or appends it.
func (d *Dataset) WithColumn(s Series) (*Dataset, error) {
	if len(d.columns) > 0 && s.Len() != d.rows {
		return nil, fmt.Errorf("column %q has %d rows, expected %d", s.name, s.Len(), d.rows)
	}
	cols := make([]Series, len(d.columns), len(d.columns)+1)
	copy(cols, d.columns)
	if i, ok := d.index[s.name]; ok {
		cols[i] = s
	} else {
		cols = append(cols, s)
	}
	return New(cols...)
}

// Derive computes a new column row by row and attaches it with WithColumn.
func (d *Dataset) Derive(name schema.Column, typ schema.Type, fn func(Row) Value) (*Dataset, error) {
	values := make([]Value, d.rows)
	for i := 0; i < d.rows; i++ {
		values[i] = fn(d.Row(i))
	}
	return d.WithColumn(Series{name: name, typ: typ, values: values})
}

// Reorder moves the columns listed in order to the front, in that order,
// followed by the remaining columns in their current order. Names in order
// that d lacks are skipped.
func (d *Dataset) Reorder(order []schema.Column) *Dataset {
	cols := make([]Series, 0, len(d.columns))
	used := make(map[schema.Column]bool, len(d.columns))
	for _, c := range order {
		if s, ok := d.Series(c); ok && !used[c] {
			cols = append(cols, s)
			used[c] = true
		}
	}
	for _, s := range d.columns {
		if !used[s.name] {
			cols = append(cols, s)
		}
	}
	return MustNew(cols...)
}

// Records renders the dataset as a header row followed by data rows, using
// format for every cell.
func (d *Dataset) Records(format func(Value) string) (header []string, rows [][]string) {
	header = make([]string, len(d.columns))
	for i, c := range d.columns {
		header[i] = string(c.name)
	}
	rows = make([][]string, d.rows)
	for r := 0; r < d.rows; r++ {
		row := make([]string, len(d.columns))
		for c, s := range d.columns {
			row[c] = format(s.values[r])
		}
		rows[r] = row
	}
	return header, rows
}
