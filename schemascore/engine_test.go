package schemascore_test

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"dataomni/schemascore/schemascore"
)

const tolerance = 1e-9

func newTestEngine() *schemascore.Engine {
	return schemascore.NewEngine(schemascore.Config{}, nil, nil, nil)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func TestScoreSingleTableWithKeys(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "id", DataType: "INT64", PrimaryKey: true},
		{TableName: "users", ColumnName: "a", DataType: "STRING"},
	}

	result, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}

	// One table with a primary key and no foreign key: half the keys weight.
	if !almostEqual(result.KeysPresenceScore, 5) {
		t.Errorf("expected keys presence 5, got %f", result.KeysPresenceScore)
	}
	// Both fields carry a data type.
	if !almostEqual(result.FieldTypesScore, 10) {
		t.Errorf("expected field types 10, got %f", result.FieldTypesScore)
	}
	// Neither name is meaningful ("id" and "a" are too short) and neither has
	// a description.
	if !almostEqual(result.FieldNamesScore, 0) {
		t.Errorf("expected field names 0, got %f", result.FieldNamesScore)
	}
	if !contains(result.Penalized.NonMeaningfulNoDescription, "a") {
		t.Errorf("expected %q in NonMeaningful_NoDescription, got %v", "a", result.Penalized.NonMeaningfulNoDescription)
	}
	if !contains(result.Penalized.NonMeaningfulNoDescription, "id") {
		t.Errorf("expected %q in NonMeaningful_NoDescription, got %v", "id", result.Penalized.NonMeaningfulNoDescription)
	}
	// "id" and "a" are not confusable, so the similarity dimension is intact.
	if !almostEqual(result.FieldNameSimilarityScore, 20) {
		t.Errorf("expected similarity score 20, got %f", result.FieldNameSimilarityScore)
	}
	if !almostEqual(result.TotalScore, 35) {
		t.Errorf("expected total 35, got %f", result.TotalScore)
	}
	if !almostEqual(result.TotalPct, 35) {
		t.Errorf("expected total pct 35, got %f", result.TotalPct)
	}
}

func TestScoreSimilarUndescribedNames(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_id"},
		{TableName: "users", ColumnName: "user_id2"},
	}

	result, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if !contains(result.Penalized.SimilarUndifferentiated, "user_id") ||
		!contains(result.Penalized.SimilarUndifferentiated, "user_id2") {
		t.Errorf("expected both names flagged as similar, got %v", result.Penalized.SimilarUndifferentiated)
	}
	// One flagged pair out of one possible pair: similarity score collapses.
	if !almostEqual(result.FieldNameSimilarityScore, 0) {
		t.Errorf("expected similarity score 0, got %f", result.FieldNameSimilarityScore)
	}
}

func TestScoreSimilarNamesWithDistinctDescriptions(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_id", Description: "Primary user identifier"},
		{TableName: "users", ColumnName: "user_id2", Description: "Legacy user identifier"},
	}

	result, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if len(result.Penalized.SimilarUndifferentiated) != 0 {
		t.Errorf("distinct descriptions should disambiguate, got %v", result.Penalized.SimilarUndifferentiated)
	}
	if !almostEqual(result.FieldNameSimilarityScore, 20) {
		t.Errorf("expected full similarity weight, got %f", result.FieldNameSimilarityScore)
	}
}

func TestScoreCrossTableNamesNotCompared(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_id"},
		{TableName: "orders", ColumnName: "user_id2"},
	}

	result, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if len(result.Penalized.SimilarUndifferentiated) != 0 {
		t.Errorf("cross-table pairs must not be flagged, got %v", result.Penalized.SimilarUndifferentiated)
	}
}

func TestScoreThresholdAboveOneDisablesSimilarity(t *testing.T) {
	engine := newTestEngine()
	threshold := 1.01
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_id"},
		{TableName: "users", ColumnName: "user_id"},
		{TableName: "users", ColumnName: "user_id2"},
	}

	result, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{SimilarityThreshold: &threshold})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if len(result.Penalized.SimilarUndifferentiated) != 0 {
		t.Errorf("threshold above 1 should flag nothing, got %v", result.Penalized.SimilarUndifferentiated)
	}
	if !almostEqual(result.FieldNameSimilarityScore, 20) {
		t.Errorf("expected full similarity weight, got %f", result.FieldNameSimilarityScore)
	}
}

func TestScoreEmptySchema(t *testing.T) {
	engine := newTestEngine()
	_, err := engine.Score(context.Background(), nil, schemascore.ScoreOptions{})
	if err == nil {
		t.Fatal("expected an error for an empty schema")
	}
	scoreErr, ok := err.(*schemascore.ScoreError)
	if !ok {
		t.Fatalf("expected a *ScoreError, got %T", err)
	}
	if scoreErr.Code != schemascore.CodeInvalidSchema {
		t.Errorf("expected code %q, got %q", schemascore.CodeInvalidSchema, scoreErr.Code)
	}
}

func TestScoreEntryMissingRequiredKeys(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_name"},
		{TableName: "users"},
	}
	_, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err == nil {
		t.Fatal("expected an error for a missing column_name")
	}
	scoreErr, ok := err.(*schemascore.ScoreError)
	if !ok {
		t.Fatalf("expected a *ScoreError, got %T", err)
	}
	if scoreErr.Code != schemascore.CodeInvalidEntry {
		t.Errorf("expected code %q, got %q", schemascore.CodeInvalidEntry, scoreErr.Code)
	}
}

func TestScoreZeroWeightDimension(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_name", DataType: "STRING"},
	}
	opts := schemascore.ScoreOptions{WeightsOverride: map[string]float64{"field_types": 0}}

	result, err := engine.Score(context.Background(), schema, opts)
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if result.FieldTypesScore != 0 {
		t.Errorf("expected field types score 0, got %f", result.FieldTypesScore)
	}
	if result.FieldTypesPct != 0 {
		t.Errorf("expected field types pct 0 (not NaN), got %f", result.FieldTypesPct)
	}
	if math.IsNaN(result.TotalPct) {
		t.Error("total pct must not be NaN")
	}
}

func TestScoreUnknownWeightKeyIgnored(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_name", Description: "Full display name", DataType: "STRING", PrimaryKey: true},
	}

	base, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	overridden, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{
		WeightsOverride: map[string]float64{"bogus_dimension": 50},
	})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if !reflect.DeepEqual(base, overridden) {
		t.Error("unknown weight keys must be ignored")
	}
}

func TestScoreBoundsAndPercentageIdentity(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_id", DataType: "INT64", PrimaryKey: true},
		{TableName: "users", ColumnName: "email_address", Description: "Primary contact email", DataType: "STRING"},
		{TableName: "users", ColumnName: "a"},
		{TableName: "orders", ColumnName: "order_id", DataType: "INT64", PrimaryKey: true},
		{TableName: "orders", ColumnName: "user_id", Description: "Purchasing user", DataType: "INT64", ForeignKey: true},
		{TableName: "orders", ColumnName: "order_total", DataType: "NUMERIC"},
	}

	result, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}

	weights := schemascore.DefaultWeights()
	dims := []struct {
		name   string
		score  float64
		weight float64
	}{
		{"field names", result.FieldNamesScore, weights[schemascore.DimFieldNames]},
		{"descriptions", result.FieldDescriptionsScore, weights[schemascore.DimFieldDescriptions]},
		{"similarity", result.FieldNameSimilarityScore, weights[schemascore.DimFieldNameSimilarity]},
		{"types", result.FieldTypesScore, weights[schemascore.DimFieldTypes]},
		{"keys", result.KeysPresenceScore, weights[schemascore.DimKeysPresence]},
	}
	for _, d := range dims {
		if d.score < -tolerance || d.score > d.weight+tolerance {
			t.Errorf("%s score %f out of [0, %f]", d.name, d.score, d.weight)
		}
	}
	if result.TotalScore < -tolerance || result.TotalScore > weights.Sum()+tolerance {
		t.Errorf("total score %f out of [0, %f]", result.TotalScore, weights.Sum())
	}
	wantPct := result.TotalScore / weights.Sum() * 100
	if !almostEqual(result.TotalPct, wantPct) {
		t.Errorf("total pct %f, want %f", result.TotalPct, wantPct)
	}
}

func TestScoreIdempotent(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_id", DataType: "INT64", PrimaryKey: true},
		{TableName: "users", ColumnName: "user_name", Description: "Display name"},
		{TableName: "users", ColumnName: "usr_nm"},
	}

	first, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	second, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("scoring is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestScoreSurvivesSimilarityBackendFailure(t *testing.T) {
	failing := func(ctx context.Context, a, b string) (float64, error) {
		return 0, errors.New("backend unavailable")
	}
	engine := schemascore.NewEngine(schemascore.Config{}, nil, failing, nil)
	// Under a working backend "user_id"/"user_id2" would be flagged as similar
	// and both names would pass the meaningfulness check.
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_id", DataType: "INT64", PrimaryKey: true},
		{TableName: "users", ColumnName: "user_id2", DataType: "INT64"},
	}

	result, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() must not fail on backend errors: %v", err)
	}
	// A failed meaningfulness check counts as not meaningful.
	if !almostEqual(result.FieldNamesScore, 0) {
		t.Errorf("expected field names 0 when classification fails, got %f", result.FieldNamesScore)
	}
	if !contains(result.Penalized.NonMeaningfulNoDescription, "user_id") ||
		!contains(result.Penalized.NonMeaningfulNoDescription, "user_id2") {
		t.Errorf("expected both names rejected, got %v", result.Penalized.NonMeaningfulNoDescription)
	}
	// A failed pair comparison counts as not similar.
	if len(result.Penalized.SimilarUndifferentiated) != 0 {
		t.Errorf("failed comparisons must not flag pairs, got %v", result.Penalized.SimilarUndifferentiated)
	}
	if !almostEqual(result.FieldNameSimilarityScore, 20) {
		t.Errorf("expected full similarity weight, got %f", result.FieldNameSimilarityScore)
	}
	// The remaining dimensions are unaffected.
	if !almostEqual(result.FieldTypesScore, 10) {
		t.Errorf("expected field types 10, got %f", result.FieldTypesScore)
	}
	if !almostEqual(result.KeysPresenceScore, 5) {
		t.Errorf("expected keys presence 5, got %f", result.KeysPresenceScore)
	}
	if !almostEqual(result.TotalScore, 35) {
		t.Errorf("expected total 35, got %f", result.TotalScore)
	}
}

func TestEngineUpdateConfig(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "user_id"},
		{TableName: "users", ColumnName: "user_id2"},
	}

	before, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if len(before.Penalized.SimilarUndifferentiated) == 0 {
		t.Fatal("expected near-duplicate names flagged under the default threshold")
	}

	cfg := engine.Config()
	cfg.SimilarityThreshold = 1.01
	engine.UpdateConfig(cfg)

	if got := engine.Config().SimilarityThreshold; !almostEqual(got, 1.01) {
		t.Errorf("expected updated threshold 1.01, got %f", got)
	}
	after, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	if len(after.Penalized.SimilarUndifferentiated) != 0 {
		t.Errorf("updated threshold should flag nothing, got %v", after.Penalized.SimilarUndifferentiated)
	}
}

func TestScoreDescriptionShieldsFromPenalty(t *testing.T) {
	engine := newTestEngine()
	schema := []schemascore.FieldEntry{
		{TableName: "users", ColumnName: "ab", Description: "Customer age in years"},
		{TableName: "users", ColumnName: "user_name"},
	}

	result, err := engine.Score(context.Background(), schema, schemascore.ScoreOptions{})
	if err != nil {
		t.Fatalf("Score() failed: %v", err)
	}
	// "ab" fails the name check but the description compensates: tracked for
	// display, but never in the no-description set and never penalized.
	if !contains(result.Penalized.NonMeaningful, "ab") {
		t.Errorf("expected %q tracked as non-meaningful, got %v", "ab", result.Penalized.NonMeaningful)
	}
	if contains(result.Penalized.NonMeaningfulNoDescription, "ab") {
		t.Errorf("described field %q must not be in NonMeaningful_NoDescription", "ab")
	}
	if !almostEqual(result.FieldNamesScore, 35) {
		t.Errorf("expected full field names weight, got %f", result.FieldNamesScore)
	}
}
