package schemascore

// Dimension keys accepted in a weight configuration. Unknown keys in an
// override map are ignored.
const (
	DimFieldNames          = "field_names"
	DimFieldDescriptions   = "field_descriptions"
	DimFieldNameSimilarity = "field_name_similarity"
	DimFieldTypes          = "field_types"
	DimKeysPresence        = "keys_presence"
)

// FieldEntry is one column's metadata record, the scoring input unit.
// TableName and ColumnName are mandatory; everything else may be absent.
type FieldEntry struct {
	TableName   string `json:"table_name"`
	ColumnName  string `json:"column_name"`
	Description string `json:"description,omitempty"`
	DataType    string `json:"data_type,omitempty"`
	PrimaryKey  bool   `json:"primary_key,omitempty"`
	ForeignKey  bool   `json:"foreign_key,omitempty"`
}

// Weights maps the five dimension keys to their point allocation. The sum of
// all weights is the maximum possible total score.
type Weights map[string]float64

// DefaultWeights returns the built-in weight distribution (sums to 100).
func DefaultWeights() Weights {
	return Weights{
		DimFieldNames:          35,
		DimFieldDescriptions:   25,
		DimFieldNameSimilarity: 20,
		DimFieldTypes:          10,
		DimKeysPresence:        10,
	}
}

// Merge returns a copy of w with known keys replaced by the override values.
// Keys outside the five dimensions are silently dropped.
func (w Weights) Merge(override map[string]float64) Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	for k, v := range override {
		if _, ok := out[k]; ok {
			out[k] = v
		}
	}
	return out
}

// Sum returns the total point allocation across all dimensions.
func (w Weights) Sum() float64 {
	var total float64
	for _, v := range w {
		total += v
	}
	return total
}

// Clone creates an independent copy of the weight map.
func (w Weights) Clone() Weights {
	if w == nil {
		return nil
	}
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// PenalizedFields lists the column names flagged during scoring. NonMeaningful
// is display-only tracking; only NonMeaningfulNoDescription entries actually
// reduced the field-names score.
type PenalizedFields struct {
	NonMeaningful              []string `json:"NonMeaningful"`
	NonMeaningfulNoDescription []string `json:"NonMeaningful_NoDescription"`
	SimilarUndifferentiated    []string `json:"Similar_Undifferentiated"`
}

// Result carries the raw dimension scores, their percentage views and the
// penalized-field breakdown for one scoring run.
type Result struct {
	FieldNamesScore          float64 `json:"Field Names Score"`
	FieldDescriptionsScore   float64 `json:"Field Descriptions Score"`
	FieldNameSimilarityScore float64 `json:"Field Name Similarity Score"`
	FieldTypesScore          float64 `json:"Field Types Score"`
	KeysPresenceScore        float64 `json:"Keys Presence Score"`
	TotalScore               float64 `json:"Total Score"`

	FieldNamesPct          float64 `json:"Field Names Score (%)"`
	FieldDescriptionsPct   float64 `json:"Field Descriptions Score (%)"`
	FieldNameSimilarityPct float64 `json:"Field Name Similarity Score (%)"`
	FieldTypesPct          float64 `json:"Field Types Score (%)"`
	KeysPresencePct        float64 `json:"Keys Presence Score (%)"`
	TotalPct               float64 `json:"Total Score (%)"`

	Penalized PenalizedFields `json:"Penalized Fields"`
}
