package schemascore

import "strings"

// describedFieldCount counts fields whose description is non-empty after
// trimming.
func describedFieldCount(schema []FieldEntry) int {
	count := 0
	for _, entry := range schema {
		if strings.TrimSpace(entry.Description) != "" {
			count++
		}
	}
	return count
}

// typedFieldCount counts fields with a present, non-empty data type.
func typedFieldCount(schema []FieldEntry) int {
	count := 0
	for _, entry := range schema {
		if entry.DataType != "" {
			count++
		}
	}
	return count
}

// keysPresenceScore splits the keys weight evenly between primary and foreign
// keys: a table contributes to each half when any of its fields carries the
// corresponding flag.
func keysPresenceScore(schema []FieldEntry, weight float64) (float64, int) {
	tables := make(map[string][]FieldEntry)
	for _, entry := range schema {
		tables[entry.TableName] = append(tables[entry.TableName], entry)
	}
	numTables := len(tables)
	if numTables == 0 {
		return 0, 0
	}

	tablesWithPK := 0
	tablesWithFK := 0
	for _, fields := range tables {
		hasPK := false
		hasFK := false
		for _, f := range fields {
			if f.PrimaryKey {
				hasPK = true
			}
			if f.ForeignKey {
				hasFK = true
			}
		}
		if hasPK {
			tablesWithPK++
		}
		if hasFK {
			tablesWithFK++
		}
	}

	pkScore := float64(tablesWithPK) / float64(numTables) * (weight / 2)
	fkScore := float64(tablesWithFK) / float64(numTables) * (weight / 2)
	return pkScore + fkScore, numTables
}
