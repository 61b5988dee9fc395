package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/brent-soan/CSADPRG/internal/schema"
)

// Contract is one source row. Zero fields become empty cells; use "N/A" or
// similar to exercise the cleaning rules.
type Contract struct {
	ProjectID   string
	MainIsland  string
	Region      string
	Province    string
	WorkType    string
	FundingYear string
	Budget      string
	Cost        string
	Start       string
	Completion  string
	Contractor  string
}

// SampleContracts is a small dataset with one row of each interesting kind:
// valid rows in two regions, a row with a non-numeric budget and a row
// outside the default years.
func SampleContracts() []Contract {
	return []Contract{
		{ProjectID: "P-001", MainIsland: "Luzon", Region: "Region I", Province: "Ilocos Norte", WorkType: "Drainage", FundingYear: "2021", Budget: "1,000,000.00", Cost: "900,000.00", Start: "2021-01-10", Completion: "2021-03-11", Contractor: "Alpha Builders"},
		{ProjectID: "P-002", MainIsland: "Luzon", Region: "Region I", Province: "Ilocos Sur", WorkType: "Drainage", FundingYear: "2022", Budget: "2000000", Cost: "2100000", Start: "2022-02-01", Completion: "2022-02-21", Contractor: "Beta Construction"},
		{ProjectID: "P-003", MainIsland: "Visayas", Region: "Region VII", Province: "Cebu", WorkType: "Seawall", FundingYear: "2023", Budget: "500000", Cost: "450000", Start: "2023-05-01", Completion: "2023-06-30", Contractor: "Alpha Builders"},
		{ProjectID: "P-004", MainIsland: "Visayas", Region: "Region VII", Province: "Cebu", WorkType: "Seawall", FundingYear: "2022", Budget: "N/A", Cost: "300000", Start: "2022-01-01", Completion: "2022-04-01", Contractor: "Gamma Corp"},
		{ProjectID: "P-005", MainIsland: "Mindanao", Region: "Region XI", Province: "Davao", WorkType: "Drainage", FundingYear: "2019", Budget: "800000", Cost: "700000", Start: "2019-03-01", Completion: "2019-05-01", Contractor: "Delta Works"},
	}
}

// WriteContractsCSV writes rows under every canonical source header to
// dir/name and returns the path.
func WriteContractsCSV(t *testing.T, dir, name string, rows ...Contract) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	fields := schema.Canonical().Fields()
	w := csv.NewWriter(f)
	header := make([]string, len(fields))
	for i, field := range fields {
		header[i] = field.Source
	}
	if err := w.Write(header); err != nil {
		t.Fatalf("write fixture header: %v", err)
	}

	for _, c := range rows {
		cells := map[schema.Column]string{
			schema.MainIsland:           c.MainIsland,
			schema.Region:               c.Region,
			schema.Province:             c.Province,
			schema.ProjectID:            c.ProjectID,
			schema.WorkType:             c.WorkType,
			schema.FundingYear:          c.FundingYear,
			schema.ApprovedBudget:       c.Budget,
			schema.ContractCost:         c.Cost,
			schema.StartDate:            c.Start,
			schema.ActualCompletionDate: c.Completion,
			schema.Contractor:           c.Contractor,
		}
		record := make([]string, len(fields))
		for i, field := range fields {
			record[i] = cells[field.Column]
		}
		if err := w.Write(record); err != nil {
			t.Fatalf("write fixture row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("flush fixture: %v", err)
	}
	return path
}
