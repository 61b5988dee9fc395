package domain

// Summary holds the scalar figures written next to the report tables.
type Summary struct {
	TotalProjects    int `json:"total_projects"`
	TotalContractors int `json:"total_contractors"`
	TotalProvinces   int `json:"total_provinces"`
	// GlobalAverageDelay is nil when no project has both dates.
	GlobalAverageDelay *float64 `json:"global_avg_delay"`
	TotalSavings       float64  `json:"total_savings"`
}
