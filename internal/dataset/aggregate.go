package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/brent-soan/CSADPRG/internal/schema"
)

// Op is one of the supported reductions.
type Op uint8

const (
	OpSum Op = iota
	OpMean
	OpMedian
	OpCount
	OpConditionalCount
)

func (o Op) String() string {
	switch o {
	case OpSum:
		return "sum"
	case OpMean:
		return "mean"
	case OpMedian:
		return "median"
	case OpCount:
		return "count"
	case OpConditionalCount:
		return "count_if"
	default:
		return "unknown"
	}
}

// Aggregation reduces the Source column of a group into a single value
// stored under Into. Missing values are skipped by every operation.
type Aggregation struct {
	Op        Op
	Source    schema.Column
	Into      schema.Column
	Predicate func(Value) bool
}

// Sum adds the numeric values of src. An empty input sums to 0.
func Sum(src, into schema.Column) Aggregation {
	return Aggregation{Op: OpSum, Source: src, Into: into}
}

// Mean averages the numeric values of src; NaN when there are none.
func Mean(src, into schema.Column) Aggregation {
	return Aggregation{Op: OpMean, Source: src, Into: into}
}

// Median returns the middle numeric value of src (mean of the two middle
// values for even counts); NaN when there are none.
func Median(src, into schema.Column) Aggregation {
	return Aggregation{Op: OpMedian, Source: src, Into: into}
}

// Count counts the rows of the group.
func Count(into schema.Column) Aggregation {
	return Aggregation{Op: OpCount, Into: into}
}

// CountPresent counts the rows whose src value is not missing.
func CountPresent(src, into schema.Column) Aggregation {
	return Aggregation{Op: OpCount, Source: src, Into: into}
}

// CountIf counts the rows whose src value is present and satisfies pred.
func CountIf(src, into schema.Column, pred func(Value) bool) Aggregation {
	return Aggregation{Op: OpConditionalCount, Source: src, Into: into, Predicate: pred}
}

// OutputType is the schema type of the aggregated column.
func (a Aggregation) OutputType() schema.Type {
	switch a.Op {
	case OpCount, OpConditionalCount:
		return schema.Integer
	default:
		return schema.Float
	}
}

// Group is a subset of a dataset's rows.
type Group struct {
	d    *Dataset
	rows []int
}

// Len returns the number of rows in the group.
func (g Group) Len() int { return len(g.rows) }

// Values returns the group's values of column c.
func (g Group) Values(c schema.Column) []Value {
	out := make([]Value, len(g.rows))
	for i, r := range g.rows {
		out[i] = g.d.Value(r, c)
	}
	return out
}

// All returns the whole dataset as a single group.
func (d *Dataset) All() Group {
	rows := make([]int, d.rows)
	for i := range rows {
		rows[i] = i
	}
	return Group{d: d, rows: rows}
}

// Apply reduces g to a single value.
func (a Aggregation) Apply(g Group) Value {
	switch a.Op {
	case OpCount:
		if a.Source == "" {
			return Int(int64(g.Len()))
		}
		var n int64
		for _, v := range g.Values(a.Source) {
			if !v.IsMissing() {
				n++
			}
		}
		return Int(n)
	case OpConditionalCount:
		var n int64
		for _, v := range g.Values(a.Source) {
			if !v.IsMissing() && a.Predicate != nil && a.Predicate(v) {
				n++
			}
		}
		return Int(n)
	}

	nums := numbers(g.Values(a.Source))
	switch a.Op {
	case OpSum:
		var total float64
		for _, n := range nums {
			total += n
		}
		return Float(total)
	case OpMean:
		if len(nums) == 0 {
			return NaN()
		}
		var total float64
		for _, n := range nums {
			total += n
		}
		return Float(total / float64(len(nums)))
	case OpMedian:
		if len(nums) == 0 {
			return NaN()
		}
		sort.Float64s(nums)
		mid := len(nums) / 2
		if len(nums)%2 == 1 {
			return Float(nums[mid])
		}
		return Float((nums[mid-1] + nums[mid]) / 2)
	default:
		return NaN()
	}
}

func numbers(values []Value) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if n, ok := v.Number(); ok && !math.IsInf(n, 0) {
			out = append(out, n)
		}
	}
	return out
}

// Grouped is a dataset partitioned by key columns. Groups keep the order in
// which their key first appears.
type Grouped struct {
	d      *Dataset
	keys   []schema.Column
	groups []Group
}

// GroupBy partitions d by the key columns. Missing key values form their own
// group.
func (d *Dataset) GroupBy(keys ...schema.Column) (*Grouped, error) {
	if err := d.Require(keys...); err != nil {
		return nil, fmt.Errorf("group by: %w", err)
	}
	pos := make(map[string]int)
	g := &Grouped{d: d, keys: keys}
	parts := make([]string, len(keys))
	for r := 0; r < d.rows; r++ {
		for i, k := range keys {
			parts[i] = d.Value(r, k).key()
		}
		id := strings.Join(parts, "\x1f")
		i, ok := pos[id]
		if !ok {
			i = len(g.groups)
			pos[id] = i
			g.groups = append(g.groups, Group{d: d})
		}
		g.groups[i].rows = append(g.groups[i].rows, r)
	}
	return g, nil
}

// Len returns the number of groups.
func (g *Grouped) Len() int { return len(g.groups) }

// Aggregate emits one row per group: the key columns followed by one column
// per aggregation.
func (g *Grouped) Aggregate(aggs ...Aggregation) (*Dataset, error) {
	cols := make([]Series, 0, len(g.keys)+len(aggs))
	for _, k := range g.keys {
		src, _ := g.d.Series(k)
		v := make([]Value, len(g.groups))
		for i, grp := range g.groups {
			v[i] = src.values[grp.rows[0]]
		}
		cols = append(cols, Series{name: k, typ: src.typ, values: v})
	}
	for _, a := range aggs {
		if a.Source != "" && !g.d.Has(a.Source) {
			return nil, fmt.Errorf("aggregate %s: unknown column %q", a.Op, a.Source)
		}
		v := make([]Value, len(g.groups))
		for i, grp := range g.groups {
			v[i] = a.Apply(grp)
		}
		cols = append(cols, Series{name: a.Into, typ: a.OutputType(), values: v})
	}
	return New(cols...)
}

// CountDistinct counts the distinct non-missing values of column c.
func (d *Dataset) CountDistinct(c schema.Column) int {
	seen := make(map[string]struct{})
	for r := 0; r < d.rows; r++ {
		v := d.Value(r, c)
		if v.IsMissing() {
			continue
		}
		seen[v.key()] = struct{}{}
	}
	return len(seen)
}
