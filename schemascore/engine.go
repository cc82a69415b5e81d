package schemascore

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// Engine computes schema quality scores. It owns its classifier and
// similarity backend explicitly; there is no package-level model state.
// An Engine is safe for concurrent use and keeps no state between calls.
type Engine struct {
	oracle     NameMeaningfulnessOracle
	similarity Similarity

	cfgMu sync.RWMutex
	cfg   Config

	logger *log.Logger
}

// ScoreOptions carries per-call overrides. Nil members keep the engine
// configuration; the options object is consumed once at call start.
type ScoreOptions struct {
	SimilarityThreshold *float64
	MeaningfulMin       *float64
	PlaceholderMax      *float64
	WeightsOverride     map[string]float64
}

// NewEngine constructs an engine with the given configuration. A nil
// similarity falls back to the lexical backend, and a nil oracle to the
// built-in heuristic classifier over that same backend.
func NewEngine(cfg Config, oracle NameMeaningfulnessOracle, sim Similarity, logger *log.Logger) *Engine {
	cfg.ApplyDefaults()
	if sim == nil {
		sim = LexicalSimilarity
	}
	if oracle == nil {
		oracle = NewHeuristicOracle(sim)
	}
	return &Engine{
		oracle:     oracle,
		similarity: sim,
		cfg:        cfg,
		logger:     logger,
	}
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.cfg.Clone()
}

// UpdateConfig replaces the configuration.
func (e *Engine) UpdateConfig(cfg Config) {
	cfg.ApplyDefaults()
	e.cfgMu.Lock()
	e.cfg = cfg
	e.cfgMu.Unlock()
}

// Score validates the schema, runs the four dimension scorers and the name
// similarity detector, and aggregates everything under the merged weight
// configuration. Failures are returned as *ScoreError values; the engine
// never panics and never returns partial results.
func (e *Engine) Score(ctx context.Context, schema []FieldEntry, opts ScoreOptions) (*Result, error) {
	if len(schema) == 0 {
		e.logf("scoring rejected: schema is empty")
		return nil, invalidSchema("schema must be a non-empty list of field entries")
	}
	for i, entry := range schema {
		if entry.TableName == "" || entry.ColumnName == "" {
			e.logf("scoring rejected: entry %d is missing required keys", i)
			return nil, invalidEntry(fmt.Sprintf("each schema entry must contain table_name and column_name (entry %d)", i))
		}
	}

	cfg := e.Config()
	weights := cfg.Weights.Merge(opts.WeightsOverride)
	similarityThreshold := cfg.SimilarityThreshold
	if opts.SimilarityThreshold != nil {
		similarityThreshold = *opts.SimilarityThreshold
	}
	meaningfulMin := cfg.MeaningfulMin
	if opts.MeaningfulMin != nil {
		meaningfulMin = *opts.MeaningfulMin
	}
	placeholderMax := cfg.PlaceholderMax
	if opts.PlaceholderMax != nil {
		placeholderMax = *opts.PlaceholderMax
	}

	totalFields := len(schema)

	// 1) Field name meaningfulness. A field with a description is never
	// penalized numerically, but a failed name is still tracked for display.
	meaningful := e.classifyNames(ctx, schema, meaningfulMin, placeholderMax)

	meaningfulOrDescribed := 0
	nonMeaningful := make(map[string]struct{})
	nonMeaningfulNoDesc := make(map[string]struct{})
	for i, entry := range schema {
		if meaningful[i] {
			meaningfulOrDescribed++
			continue
		}
		nonMeaningful[entry.ColumnName] = struct{}{}
		if strings.TrimSpace(entry.Description) != "" {
			meaningfulOrDescribed++
		} else {
			nonMeaningfulNoDesc[entry.ColumnName] = struct{}{}
		}
	}
	fieldNamesScore := float64(meaningfulOrDescribed) / float64(totalFields) * weights[DimFieldNames]

	// 2) Description coverage.
	fieldDescriptionsScore := float64(describedFieldCount(schema)) / float64(totalFields) * weights[DimFieldDescriptions]

	// 3) Type coverage.
	fieldTypesScore := float64(typedFieldCount(schema)) / float64(totalFields) * weights[DimFieldTypes]

	// 4) Keys presence, table-scoped.
	keysScore, numTables := keysPresenceScore(schema, weights[DimKeysPresence])
	if numTables == 0 {
		e.logf("no tables found in schema; keys presence scored as 0")
	}

	// 5) Name similarity.
	flagged, pairCount := e.detectSimilarNames(ctx, schema, similarityThreshold)
	similarityScore := (1 - confusionRate(pairCount, totalFields)) * weights[DimFieldNameSimilarity]

	totalScore := fieldNamesScore + fieldDescriptionsScore + similarityScore + fieldTypesScore + keysScore

	result := &Result{
		FieldNamesScore:          fieldNamesScore,
		FieldDescriptionsScore:   fieldDescriptionsScore,
		FieldNameSimilarityScore: similarityScore,
		FieldTypesScore:          fieldTypesScore,
		KeysPresenceScore:        keysScore,
		TotalScore:               totalScore,

		FieldNamesPct:          percentage(fieldNamesScore, weights[DimFieldNames]),
		FieldDescriptionsPct:   percentage(fieldDescriptionsScore, weights[DimFieldDescriptions]),
		FieldNameSimilarityPct: percentage(similarityScore, weights[DimFieldNameSimilarity]),
		FieldTypesPct:          percentage(fieldTypesScore, weights[DimFieldTypes]),
		KeysPresencePct:        percentage(keysScore, weights[DimKeysPresence]),
		TotalPct:               percentage(totalScore, weights.Sum()),

		Penalized: PenalizedFields{
			NonMeaningful:              sortedNames(nonMeaningful),
			NonMeaningfulNoDescription: sortedNames(nonMeaningfulNoDesc),
			SimilarUndifferentiated:    sortedNames(flagged),
		},
	}
	return result, nil
}

// classifyNames evaluates every field name against the meaningfulness oracle.
// Evaluations are independent, so they fan out across a bounded worker pool;
// results stay order-stable. A failed oracle call is logged and counted as
// not meaningful (default-reject).
func (e *Engine) classifyNames(ctx context.Context, schema []FieldEntry, meaningfulMin, placeholderMax float64) []bool {
	results := make([]bool, len(schema))
	workers := runtime.NumCPU()
	if workers > len(schema) {
		workers = len(schema)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				ok, err := e.oracle.Meaningful(ctx, schema[i].ColumnName, meaningfulMin, placeholderMax)
				if err != nil {
					e.logf("meaningfulness check for %q failed, treating as not meaningful: %v", schema[i].ColumnName, err)
					ok = false
				}
				results[i] = ok
			}
		}()
	}
	for i := range schema {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// percentage expresses a score relative to its weight. A zero weight is
// reported as 0% rather than dividing by zero.
func percentage(score, weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	return score / weight * 100
}

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
