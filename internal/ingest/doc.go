// Package ingest turns a raw contracts file into a typed dataset.
//
// CSV files are read with gota (type detection off, every column as text) and
// workbooks with excelize. The header is resolved against the canonical
// schema; every declared column must be present. Each cell is then coerced to
// its declared type:
//
//   - Text cells are trimmed and kept verbatim, so display strings such as
//     "N/A" in the budget columns survive until cleaning.
//   - Integer and Float cells must parse as numbers (thousands separators
//     allowed). Anything else aborts ingestion with a SCHEMA_MISMATCH error
//     naming the column, row and value.
//   - Date cells that match no known layout become Null and are removed by
//     the cleaning stage.
//
// Empty cells and gota's NaN marker are Null for every type.
package ingest
