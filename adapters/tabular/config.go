package tabular

// ColumnMapping names the three source columns the pipeline needs. Column
// names are configuration, never fixed.
type ColumnMapping struct {
	DateColumn   string `json:"date_column"`
	ValueColumn  string `json:"value_column"`
	EntityColumn string `json:"entity_column"`
}

// candidate column names checked in order when the caller has not mapped
// a column yet. They mirror common retail sales exports.
var (
	dateCandidates   = []string{"invoice_date", "Date", "date", "ds", "day", "timestamp"}
	valueCandidates  = []string{"price", "Total Amount", "amount", "value", "y", "sales", "revenue"}
	entityCandidates = []string{"shopping_mall", "Product Category", "category", "entity", "unique_id", "store"}
)

// DetectMapping proposes a mapping from the file's columns: known names
// first, positional fallback (first three columns) otherwise.
func DetectMapping(columns []string) ColumnMapping {
	mapping := ColumnMapping{
		DateColumn:   firstMatch(columns, dateCandidates),
		ValueColumn:  firstMatch(columns, valueCandidates),
		EntityColumn: firstMatch(columns, entityCandidates),
	}
	if mapping.DateColumn == "" && len(columns) > 0 {
		mapping.DateColumn = columns[0]
	}
	if mapping.ValueColumn == "" && len(columns) > 1 {
		mapping.ValueColumn = columns[1]
	}
	if mapping.EntityColumn == "" && len(columns) > 2 {
		mapping.EntityColumn = columns[2]
	}
	return mapping
}

func firstMatch(columns, candidates []string) string {
	present := make(map[string]string, len(columns))
	for _, c := range columns {
		present[c] = c
	}
	for _, want := range candidates {
		if col, ok := present[want]; ok {
			return col
		}
	}
	return ""
}
