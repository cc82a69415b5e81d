package schemascore

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SchemaColumnCandidates defines possible header names for auto-detecting the
// columns of a CSV/TSV schema export.
type SchemaColumnCandidates struct {
	Table       []string
	Column      []string
	Description []string
	DataType    []string
	PrimaryKey  []string
	ForeignKey  []string
}

func defaultSchemaColumnCandidates() SchemaColumnCandidates {
	return SchemaColumnCandidates{
		Table:       []string{"table_name", "table", "dataset_table", "tablename"},
		Column:      []string{"column_name", "column", "field_name", "field", "name"},
		Description: []string{"description", "comment", "desc"},
		DataType:    []string{"data_type", "type", "datatype"},
		PrimaryKey:  []string{"primary_key", "is_primary_key", "pk"},
		ForeignKey:  []string{"foreign_key", "is_foreign_key", "fk"},
	}
}

// ParseSchemaFile reads a flattened schema from a JSON, CSV or TSV file.
// JSON input may be a bare array of field entries or an object carrying a
// "schema" array.
func ParseSchemaFile(path string) ([]FieldEntry, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return parseDelimitedSchema(path, ',')
	case ".tsv":
		return parseDelimitedSchema(path, '\t')
	default:
		return parseJSONSchema(path)
	}
}

func parseJSONSchema(path string) ([]FieldEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	var entries []FieldEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}
	var wrapped struct {
		Schema []FieldEntry `json:"schema"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode schema file %s: %w", filepath.Base(path), err)
	}
	if wrapped.Schema == nil {
		return nil, fmt.Errorf("schema file %s carries no schema array", filepath.Base(path))
	}
	return wrapped.Schema, nil
}

func parseDelimitedSchema(path string, comma rune) ([]FieldEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("schema file %s has no data rows", filepath.Base(path))
	}

	header := rows[0]
	cands := defaultSchemaColumnCandidates()
	tableIdx := detectColumn(header, cands.Table)
	columnIdx := detectColumn(header, cands.Column)
	descIdx := detectColumn(header, cands.Description)
	typeIdx := detectColumn(header, cands.DataType)
	pkIdx := detectColumn(header, cands.PrimaryKey)
	fkIdx := detectColumn(header, cands.ForeignKey)
	if tableIdx < 0 || columnIdx < 0 {
		return nil, fmt.Errorf("schema file %s needs table and column headers (e.g. table_name, column_name)", filepath.Base(path))
	}

	entries := make([]FieldEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		entry := FieldEntry{
			TableName:   cell(row, tableIdx),
			ColumnName:  cell(row, columnIdx),
			Description: cell(row, descIdx),
			DataType:    cell(row, typeIdx),
			PrimaryKey:  parseBoolCell(cell(row, pkIdx)),
			ForeignKey:  parseBoolCell(cell(row, fkIdx)),
		}
		if entry.TableName == "" && entry.ColumnName == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// detectColumn returns the index of the first header matching one of the
// candidates, or -1 when none matches.
func detectColumn(header, candidates []string) int {
	for _, cand := range candidates {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), cand) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseBoolCell(value string) bool {
	switch strings.ToLower(value) {
	case "true", "t", "yes", "y", "1":
		return true
	default:
		return false
	}
}
