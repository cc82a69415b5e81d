package schemascore

import (
	"math"
	"testing"
)

func TestKeysPresenceScore(t *testing.T) {
	schema := []FieldEntry{
		{TableName: "users", ColumnName: "id", PrimaryKey: true},
		{TableName: "users", ColumnName: "name"},
		{TableName: "orders", ColumnName: "id", PrimaryKey: true},
		{TableName: "orders", ColumnName: "user_id", ForeignKey: true},
		{TableName: "logs", ColumnName: "line"},
	}

	score, numTables := keysPresenceScore(schema, 10)
	if numTables != 3 {
		t.Fatalf("expected 3 tables, got %d", numTables)
	}
	// 2/3 tables with a primary key and 1/3 with a foreign key, each worth
	// half the weight.
	want := 2.0/3.0*5 + 1.0/3.0*5
	if math.Abs(score-want) > 1e-9 {
		t.Errorf("expected keys score %f, got %f", want, score)
	}
}

func TestKeysPresenceScoreNoKeys(t *testing.T) {
	schema := []FieldEntry{
		{TableName: "logs", ColumnName: "line"},
	}
	score, _ := keysPresenceScore(schema, 10)
	if score != 0 {
		t.Errorf("expected 0 for a keyless schema, got %f", score)
	}
}

func TestDescribedFieldCount(t *testing.T) {
	schema := []FieldEntry{
		{TableName: "t", ColumnName: "a", Description: "real description"},
		{TableName: "t", ColumnName: "b", Description: "   "},
		{TableName: "t", ColumnName: "c"},
	}
	if got := describedFieldCount(schema); got != 1 {
		t.Errorf("expected 1 described field, got %d", got)
	}
}

func TestTypedFieldCount(t *testing.T) {
	schema := []FieldEntry{
		{TableName: "t", ColumnName: "a", DataType: "STRING"},
		{TableName: "t", ColumnName: "b"},
		{TableName: "t", ColumnName: "c", DataType: "INT64"},
	}
	if got := typedFieldCount(schema); got != 2 {
		t.Errorf("expected 2 typed fields, got %d", got)
	}
}

func TestConfusionRate(t *testing.T) {
	if got := confusionRate(0, 1); got != 0 {
		t.Errorf("single field: expected rate 0, got %f", got)
	}
	if got := confusionRate(0, 0); got != 0 {
		t.Errorf("no fields: expected rate 0, got %f", got)
	}
	// 1 flagged pair out of 4*3/2 = 6 possible pairs.
	if got := confusionRate(1, 4); math.Abs(got-1.0/6.0) > 1e-9 {
		t.Errorf("expected rate 1/6, got %f", got)
	}
}
