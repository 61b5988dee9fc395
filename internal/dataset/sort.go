package dataset

import (
	"fmt"
	"sort"

	"github.com/brent-soan/CSADPRG/internal/schema"
)

// SortKey orders rows by one column.
type SortKey struct {
	Column     schema.Column
	Descending bool
}

// Asc sorts c ascending.
func Asc(c schema.Column) SortKey { return SortKey{Column: c} }

// Desc sorts c descending.
func Desc(c schema.Column) SortKey { return SortKey{Column: c, Descending: true} }

// SortBy returns d stably sorted by keys, earlier keys taking precedence.
// Missing values (Null or NaN) sort after every present value whichever the
// direction.
func (d *Dataset) SortBy(keys ...SortKey) (*Dataset, error) {
	for _, k := range keys {
		if !d.Has(k.Column) {
			return nil, fmt.Errorf("sort: unknown column %q", k.Column)
		}
	}
	rows := make([]int, d.rows)
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range keys {
			a, b := d.Value(rows[i], k.Column), d.Value(rows[j], k.Column)
			am, bm := a.IsMissing(), b.IsMissing()
			switch {
			case am && bm:
				continue
			case am:
				return false
			case bm:
				return true
			}
			c := Compare(a, b)
			if c == 0 {
				continue
			}
			if k.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return d.Take(rows), nil
}
