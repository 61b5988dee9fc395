// Package reports computes the analytical tables over a cleaned contracts
// dataset:
//
//	RegionalEfficiency  budget, savings and delay per (region, main_island)
//	ContractorRanking   top contractors by total cost with a reliability index
//	AnnualTrends        savings and overrun rate per (funding_year, work_type)
//
// and the scalar Summary. Aggregates that cannot be computed for a group are
// stored as NaN and reported as AggregationUndefined warnings on the Result.
package reports
