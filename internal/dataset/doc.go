// Package dataset implements the in-memory table every pipeline stage passes
// along.
//
// A Dataset is an ordered set of equal-length typed Series keyed by
// schema.Column. Datasets are values in practice: Select, Filter, Derive,
// joins, GroupBy/Aggregate and SortBy all build a new Dataset and never
// modify the receiver, so a cleaned Dataset can be handed to several report
// builders at once.
//
// # Missing values
//
// Value distinguishes Null (absent or unparseable input) from a NaN float
// (an aggregation whose result is undefined, such as the mean of an empty
// set). Both count as missing: aggregations skip them, joins never match on
// them and SortBy places them last.
//
// # Aggregations
//
// The reductions are a closed set (Sum, Mean, Median, Count, CountPresent,
// CountIf) sharing the Aggregation.Apply(Group) Value contract:
//
//	g, _ := ds.GroupBy(schema.Region, schema.MainIsland)
//	out, err := g.Aggregate(
//	    dataset.Sum(schema.ApprovedBudget, schema.TotalBudget),
//	    dataset.Median(schema.CostSavings, schema.MedianSavings),
//	)
package dataset
