package schema

// Type is the declared representation of a column.
type Type uint8

const (
	Text Type = iota
	Integer
	Float
	Date
)

// String returns the lower-case type name used in logs and error context.
func (t Type) String() string {
	switch t {
	case Text:
		return "text"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Date:
		return "date"
	default:
		return "unknown"
	}
}

// Column is a canonical internal column name. Every column referenced after
// ingestion is one of the constants below.
type Column string

// Source columns, in the order the registry declares them.
const (
	MainIsland                 Column = "main_island"
	Region                     Column = "region"
	Province                   Column = "province"
	LegislativeDistrict        Column = "legislative_district"
	Municipality               Column = "municipality"
	DistrictEngineeringOffice  Column = "district_engineering_office"
	ProjectID                  Column = "project_id"
	ProjectName                Column = "project_name"
	WorkType                   Column = "work_type"
	FundingYear                Column = "funding_year"
	ContractID                 Column = "contract_id"
	ApprovedBudget             Column = "approved_budget_for_contract"
	ContractCost               Column = "contract_cost"
	ActualCompletionDate       Column = "actual_completion_date"
	Contractor                 Column = "contractor"
	ContractorCount            Column = "contractor_count"
	StartDate                  Column = "start_date"
	ProjectLatitude            Column = "project_latitude"
	ProjectLongitude           Column = "project_longitude"
	ProvincialCapital          Column = "provincial_capital"
	ProvincialCapitalLatitude  Column = "provincial_capital_latitude"
	ProvincialCapitalLongitude Column = "provincial_capital_longitude"
)

// Columns appended by the enrichment stage.
const (
	CostSavings         Column = "cost_savings"
	CompletionDelayDays Column = "completion_delay_days"
)

// Report output columns.
const (
	TotalBudget        Column = "total_budget"
	MedianSavings      Column = "median_savings"
	AverageDelay       Column = "average_delay"
	HighDelayPercent   Column = "high_delay_percent"
	EfficiencyScore    Column = "efficiency_score"
	TotalCost          Column = "total_cost"
	TotalProjects      Column = "total_projects"
	TotalSavings       Column = "total_savings"
	ReliabilityIndex   Column = "reliability_index"
	RiskFlag           Column = "risk_flag"
	Rank               Column = "rank"
	AverageCostSavings Column = "average_cost_savings"
	OverrunRate        Column = "overrun_rate"
	BaselineAvgSavings Column = "baseline_avg_savings"
	YearOverYearChange Column = "year_over_year_change"
)

// Field binds a canonical column to its source header and declared type.
type Field struct {
	Column Column
	Source string
	Type   Type
}

// Schema is an ordered list of fields.
type Schema struct {
	fields []Field
	index  map[Column]int
}

// NewSchema builds a schema from fields, preserving their order.
func NewSchema(fields ...Field) Schema {
	s := Schema{
		fields: make([]Field, len(fields)),
		index:  make(map[Column]int, len(fields)),
	}
	copy(s.fields, fields)
	for i, f := range s.fields {
		s.index[f.Column] = i
	}
	return s
}

// Fields returns a copy of the schema's fields in declaration order.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Columns returns the canonical column names in declaration order.
func (s Schema) Columns() []Column {
	out := make([]Column, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Column
	}
	return out
}

// Field returns the field declared for c.
func (s Schema) Field(c Column) (Field, bool) {
	i, ok := s.index[c]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Len returns the number of declared fields.
func (s Schema) Len() int {
	return len(s.fields)
}

var canonical = NewSchema(
	Field{MainIsland, "MainIsland", Text},
	Field{Region, "Region", Text},
	Field{Province, "Province", Text},
	Field{LegislativeDistrict, "LegislativeDistrict", Text},
	Field{Municipality, "Municipality", Text},
	Field{DistrictEngineeringOffice, "DistrictEngineeringOffice", Text},
	Field{ProjectID, "ProjectId", Text},
	Field{ProjectName, "ProjectName", Text},
	Field{WorkType, "TypeOfWork", Text},
	Field{FundingYear, "FundingYear", Integer},
	Field{ContractID, "ContractId", Text},
	Field{ApprovedBudget, "ApprovedBudgetForContract", Text},
	Field{ContractCost, "ContractCost", Text},
	Field{ActualCompletionDate, "ActualCompletionDate", Date},
	Field{Contractor, "Contractor", Text},
	Field{ContractorCount, "ContractorCount", Integer},
	Field{StartDate, "StartDate", Date},
	Field{ProjectLatitude, "ProjectLatitude", Float},
	Field{ProjectLongitude, "ProjectLongitude", Float},
	Field{ProvincialCapital, "ProvincialCapital", Text},
	Field{ProvincialCapitalLatitude, "ProvincialCapitalLatitude", Float},
	Field{ProvincialCapitalLongitude, "ProvincialCapitalLongitude", Float},
)

// Canonical returns the fixed source schema. Budget and cost are declared as
// text because the source formats them as display strings; they become
// numeric during cleaning.
func Canonical() Schema {
	return canonical
}

// Aliases maps each source header to its canonical column.
func Aliases() map[string]Column {
	out := make(map[string]Column, canonical.Len())
	for _, f := range canonical.fields {
		out[f.Source] = f.Column
	}
	return out
}

// Lookup resolves a source header. Matching is exact and case-sensitive.
func Lookup(source string) (Column, bool) {
	for _, f := range canonical.fields {
		if f.Source == source {
			return f.Column, true
		}
	}
	return "", false
}
