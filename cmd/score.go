package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dataomni/schemascore/schemascore"
)

var (
	inputPath           string
	outputPath          string
	similarityThreshold float64
	meaningfulMin       float64
	placeholderMax      float64
	weightOverrides     []string
	verbose             bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a flattened schema file",
	Long: `Score a flattened schema (JSON array of field entries, or CSV/TSV
with table/column headers) and print the weighted quality breakdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inputPath == "" {
			return errors.New("an input schema file is required (--input)")
		}

		schema, err := schemascore.ParseSchemaFile(inputPath)
		if err != nil {
			return err
		}

		cfg, err := loadEngineConfig()
		if err != nil {
			return err
		}

		logger := log.New(os.Stderr, "", log.LstdFlags)
		sim, closer, err := buildSimilarity(cfg, logger)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer()
		}
		engine := schemascore.NewEngine(cfg, nil, sim, logger)

		opts, err := buildScoreOptions(cmd)
		if err != nil {
			return err
		}

		result, err := engine.Score(context.Background(), schema, opts)
		if err != nil {
			var scoreErr *schemascore.ScoreError
			if errors.As(err, &scoreErr) {
				// Scoring failures are data: emit the structured error object.
				payload, _ := json.MarshalIndent(scoreErr, "", "  ")
				fmt.Println(string(payload))
			}
			return err
		}

		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		if outputPath != "" {
			if err := os.WriteFile(outputPath, payload, 0o644); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
			fmt.Printf("Result written to %s\n", outputPath)
		} else {
			fmt.Println(string(payload))
		}

		if verbose {
			printSummary(schema, result)
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&inputPath, "input", "", "schema file to score (JSON, CSV or TSV)")
	scoreCmd.Flags().StringVar(&outputPath, "output", "", "write the result JSON to a file instead of stdout")
	scoreCmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0.8, "pairwise name-similarity cutoff in [0,1]")
	scoreCmd.Flags().Float64Var(&meaningfulMin, "meaningful-min", 0.05, "minimum similarity to the meaningful-name reference")
	scoreCmd.Flags().Float64Var(&placeholderMax, "placeholder-max", 0.80, "maximum similarity to the placeholder reference")
	scoreCmd.Flags().StringArrayVar(&weightOverrides, "weight", nil, "weight override as dimension=points (repeatable), e.g. --weight field_names=30")
	scoreCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print a per-dimension summary")

	scoreCmd.Flags().String("model", "", "ONNX sentence-encoder model path (enables the embedding backend)")
	scoreCmd.Flags().String("tokenizer", "", "tokenizer.json path for the embedding backend")
	_ = viper.BindPFlag("embedder.modelpath", scoreCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("embedder.tokenizerpath", scoreCmd.Flags().Lookup("tokenizer"))

	rootCmd.AddCommand(scoreCmd)
}

// buildSimilarity picks the embedding backend when a model is configured and
// falls back to the lexical backend otherwise.
func buildSimilarity(cfg schemascore.Config, logger *log.Logger) (schemascore.Similarity, func(), error) {
	if cfg.Embedder.ModelPath == "" {
		return schemascore.LexicalSimilarity, nil, nil
	}
	embedder, err := schemascore.NewOrtEmbedder(cfg.Embedder)
	if err != nil {
		return nil, nil, fmt.Errorf("init embedder: %w", err)
	}
	logger.Printf("embedding backend ready (model %s)", embedder.ModelID())
	return schemascore.EmbeddingSimilarity(embedder), func() { _ = embedder.Close() }, nil
}

// buildScoreOptions carries only the flags the caller actually set, so the
// engine configuration keeps its own defaults for the rest.
func buildScoreOptions(cmd *cobra.Command) (schemascore.ScoreOptions, error) {
	var opts schemascore.ScoreOptions
	if cmd.Flags().Changed("similarity-threshold") {
		opts.SimilarityThreshold = &similarityThreshold
	}
	if cmd.Flags().Changed("meaningful-min") {
		opts.MeaningfulMin = &meaningfulMin
	}
	if cmd.Flags().Changed("placeholder-max") {
		opts.PlaceholderMax = &placeholderMax
	}
	if len(weightOverrides) > 0 {
		overrides := make(map[string]float64, len(weightOverrides))
		for _, raw := range weightOverrides {
			key, value, ok := strings.Cut(raw, "=")
			if !ok {
				return opts, fmt.Errorf("invalid --weight %q, expected dimension=points", raw)
			}
			points, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return opts, fmt.Errorf("invalid --weight %q: %w", raw, err)
			}
			overrides[strings.TrimSpace(key)] = points
		}
		opts.WeightsOverride = overrides
	}
	return opts, nil
}

func printSummary(schema []schemascore.FieldEntry, result *schemascore.Result) {
	tables := make(map[string]struct{})
	for _, entry := range schema {
		tables[entry.TableName] = struct{}{}
	}
	fmt.Printf("\nScored %s fields across %s tables\n",
		humanize.Comma(int64(len(schema))), humanize.Comma(int64(len(tables))))
	fmt.Printf("- Field Names:      %6.2f (%.1f%%)\n", result.FieldNamesScore, result.FieldNamesPct)
	fmt.Printf("- Descriptions:     %6.2f (%.1f%%)\n", result.FieldDescriptionsScore, result.FieldDescriptionsPct)
	fmt.Printf("- Name Similarity:  %6.2f (%.1f%%)\n", result.FieldNameSimilarityScore, result.FieldNameSimilarityPct)
	fmt.Printf("- Field Types:      %6.2f (%.1f%%)\n", result.FieldTypesScore, result.FieldTypesPct)
	fmt.Printf("- Keys Presence:    %6.2f (%.1f%%)\n", result.KeysPresenceScore, result.KeysPresencePct)
	fmt.Printf("= Total:            %6.2f (%.1f%%)\n", result.TotalScore, result.TotalPct)

	if len(result.Penalized.NonMeaningfulNoDescription) > 0 {
		fmt.Printf("\nUndescribed, non-meaningful fields: %s\n",
			strings.Join(result.Penalized.NonMeaningfulNoDescription, ", "))
	}
	if len(result.Penalized.SimilarUndifferentiated) > 0 {
		fmt.Printf("Confusably similar fields: %s\n",
			strings.Join(result.Penalized.SimilarUndifferentiated, ", "))
	}
}
