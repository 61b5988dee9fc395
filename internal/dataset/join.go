package dataset

import (
	"fmt"
	"strings"

	"github.com/brent-soan/CSADPRG/internal/schema"
)

// InnerJoin keeps every (left, right) row pair whose key columns are equal.
// Output rows follow left order, then right order within a left row. Rows
// with a missing key value never match.
func InnerJoin(left, right *Dataset, on ...schema.Column) (*Dataset, error) {
	return join(left, right, on, false)
}

// LeftJoin is InnerJoin that also keeps unmatched left rows, with Null in
// every right-side column.
func LeftJoin(left, right *Dataset, on ...schema.Column) (*Dataset, error) {
	return join(left, right, on, true)
}

func join(left, right *Dataset, on []schema.Column, keepUnmatched bool) (*Dataset, error) {
	if len(on) == 0 {
		return nil, fmt.Errorf("join: no key columns")
	}
	if err := left.Require(on...); err != nil {
		return nil, fmt.Errorf("join: left side: %w", err)
	}
	if err := right.Require(on...); err != nil {
		return nil, fmt.Errorf("join: right side: %w", err)
	}

	isKey := make(map[schema.Column]bool, len(on))
	for _, c := range on {
		isKey[c] = true
	}
	var rightCols []Series
	for _, s := range right.columns {
		if isKey[s.name] {
			continue
		}
		if left.Has(s.name) {
			return nil, fmt.Errorf("join: column %q exists on both sides", s.name)
		}
		rightCols = append(rightCols, s)
	}

	lookup := make(map[string][]int, right.rows)
	for r := 0; r < right.rows; r++ {
		if k, ok := compositeKey(right, r, on); ok {
			lookup[k] = append(lookup[k], r)
		}
	}

	var leftRows, rightRows []int
	for l := 0; l < left.rows; l++ {
		var matches []int
		if k, ok := compositeKey(left, l, on); ok {
			matches = lookup[k]
		}
		if len(matches) == 0 {
			if keepUnmatched {
				leftRows = append(leftRows, l)
				rightRows = append(rightRows, -1)
			}
			continue
		}
		for _, r := range matches {
			leftRows = append(leftRows, l)
			rightRows = append(rightRows, r)
		}
	}

	cols := make([]Series, 0, len(left.columns)+len(rightCols))
	for _, s := range left.columns {
		cols = append(cols, s.take(leftRows))
	}
	for _, s := range rightCols {
		v := make([]Value, len(rightRows))
		for i, r := range rightRows {
			if r >= 0 {
				v[i] = s.values[r]
			}
		}
		cols = append(cols, Series{name: s.name, typ: s.typ, values: v})
	}
	return New(cols...)
}

func compositeKey(d *Dataset, row int, on []schema.Column) (string, bool) {
	parts := make([]string, len(on))
	for i, c := range on {
		v := d.Value(row, c)
		if v.IsMissing() {
			return "", false
		}
		parts[i] = v.key()
	}
	return strings.Join(parts, "\x1f"), true
}
