// Package exporter writes finished reports to disk and to the console.
//
// CSVWriter writes one report table per file with floats fixed to two
// decimals and missing values as empty cells. JSONWriter writes the summary.
// WorkbookWriter collects every report into a single XLSX workbook.
// ConsoleWriter renders previews for the interactive menu.
//
// Every file failure is returned as an EXPORT AppError carrying the path.
// Files written before a failure are left in place.
package exporter
