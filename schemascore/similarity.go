package schemascore

import (
	"context"
	"math"
	"strings"
	"sync"

	lev "github.com/texttheater/golang-levenshtein/levenshtein"
)

// Similarity computes a pairwise similarity in [0, 1] between two strings.
// Implementations may call out to a model; errors are recovered by the engine
// with the default-reject policy (a failed comparison counts as not similar).
type Similarity func(ctx context.Context, a, b string) (float64, error)

// LexicalSimilarity is the model-free backend: exact and containment matches,
// token overlap and normalized edit distance, whichever scores highest.
func LexicalSimilarity(_ context.Context, a, b string) (float64, error) {
	return lexicalScore(a, b), nil
}

func lexicalScore(a, b string) float64 {
	n1 := strings.ToLower(strings.TrimSpace(a))
	n2 := strings.ToLower(strings.TrimSpace(b))
	if n1 == "" || n2 == "" {
		return 0
	}
	if n1 == n2 {
		return 1.0
	}
	if strings.Contains(n1, n2) || strings.Contains(n2, n1) {
		return 0.8
	}

	tokenScore := jaccard(TokenizeName(n1), TokenizeName(n2))

	dist := lev.DistanceForStrings([]rune(n1), []rune(n2), lev.DefaultOptions)
	maxLen := float64(len([]rune(n1)))
	if l := float64(len([]rune(n2))); l > maxLen {
		maxLen = l
	}
	editScore := 1.0 - float64(dist)/maxLen

	return math.Max(tokenScore, editScore)
}

func jaccard(tokens1, tokens2 []string) float64 {
	set1 := make(map[string]struct{}, len(tokens1))
	for _, t := range tokens1 {
		set1[t] = struct{}{}
	}
	set2 := make(map[string]struct{}, len(tokens2))
	for _, t := range tokens2 {
		set2[t] = struct{}{}
	}

	intersect := 0
	union := make(map[string]struct{}, len(set1)+len(set2))
	for t := range set1 {
		union[t] = struct{}{}
		if _, ok := set2[t]; ok {
			intersect++
		}
	}
	for t := range set2 {
		union[t] = struct{}{}
	}

	if len(union) == 0 {
		return 0
	}
	return float64(intersect) / float64(len(union))
}

// EmbeddingSimilarity wraps an Embedder as a Similarity function. Each unique
// string is embedded once and memoized, so the pairwise comparison stage
// performs at most one inference call per distinct name.
func EmbeddingSimilarity(embedder Embedder) Similarity {
	var mu sync.Mutex
	memo := make(map[string][]float32)

	embed := func(ctx context.Context, text string) ([]float32, error) {
		key := NormalizeText(text)
		mu.Lock()
		vec, ok := memo[key]
		mu.Unlock()
		if ok {
			return vec, nil
		}
		vec, err := embedder.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		mu.Lock()
		memo[key] = vec
		mu.Unlock()
		return vec, nil
	}

	return func(ctx context.Context, a, b string) (float64, error) {
		va, err := embed(ctx, a)
		if err != nil {
			return 0, err
		}
		vb, err := embed(ctx, b)
		if err != nil {
			return 0, err
		}
		return cosineSimilarity(va, vb), nil
	}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
