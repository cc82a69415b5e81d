package schemascore

import (
	"context"
	"strings"
)

// detectSimilarNames compares every same-table pair of field names and flags
// the ones that are near-duplicates without disambiguating descriptions.
// A pair is exempt when both descriptions are non-empty and differ. Failed
// similarity calls are logged and treated as not similar (default-reject).
func (e *Engine) detectSimilarNames(ctx context.Context, schema []FieldEntry, threshold float64) (flagged map[string]struct{}, pairCount int) {
	flagged = make(map[string]struct{})

	for i := 0; i < len(schema); i++ {
		for j := i + 1; j < len(schema); j++ {
			a, b := schema[i], schema[j]
			if a.TableName != b.TableName {
				continue
			}
			sim, err := e.similarity(ctx, a.ColumnName, b.ColumnName)
			if err != nil {
				e.logf("similarity %q/%q failed, treating as not similar: %v", a.ColumnName, b.ColumnName, err)
				continue
			}
			if sim < threshold {
				continue
			}
			descA := strings.TrimSpace(a.Description)
			descB := strings.TrimSpace(b.Description)
			if descA != "" && descB != "" && descA != descB {
				// Distinct descriptions let a user tell the fields apart.
				continue
			}
			pairCount++
			flagged[a.ColumnName] = struct{}{}
			flagged[b.ColumnName] = struct{}{}
		}
	}
	return flagged, pairCount
}

// confusionRate divides the flagged pair count by the number of possible
// pairs over the whole schema. The denominator deliberately counts
// cross-table pairs even though only same-table pairs are compared, matching
// the historical scoring behavior.
func confusionRate(pairCount, totalFields int) float64 {
	if totalFields <= 1 {
		return 0
	}
	totalPairs := float64(totalFields) * float64(totalFields-1) / 2
	return float64(pairCount) / totalPairs
}
