package schemascore

import (
	"context"
	"unicode/utf8"
)

// Reference phrases the classifier compares names against.
const (
	meaningfulReference  = "meaningful field name"
	placeholderReference = "placeholder unknown generic dummy test"
)

// NameMeaningfulnessOracle decides whether a single field name is
// self-descriptive. It is a binary oracle; there is no partial credit.
// Implementations may be rule-based, model-based or remote.
type NameMeaningfulnessOracle interface {
	Meaningful(ctx context.Context, name string, meaningfulMin, placeholderMax float64) (bool, error)
}

// HeuristicOracle is the built-in classifier. It checks adequate length,
// token content and the presence of an informative (noun-like) token, then
// gates the name against the two reference phrases through its similarity
// backend.
type HeuristicOracle struct {
	sim Similarity
}

// NewHeuristicOracle builds an oracle over the given similarity backend.
// A nil backend falls back to LexicalSimilarity.
func NewHeuristicOracle(sim Similarity) *HeuristicOracle {
	if sim == nil {
		sim = LexicalSimilarity
	}
	return &HeuristicOracle{sim: sim}
}

// Meaningful reports whether the field name is likely user-friendly.
//
// Heuristics:
//  1. Adequate length (at least 4 characters) after trimming, with
//     underscores read as spaces.
//  2. At least one token that is not punctuation or numeric.
//  3. At least one informative token (a noun/adjective stand-in: anything
//     outside the function-word set, after abbreviation expansion).
//  4. Similarity to "meaningful field name" >= meaningfulMin.
//  5. Similarity to "placeholder unknown generic dummy test" <= placeholderMax.
func (o *HeuristicOracle) Meaningful(ctx context.Context, name string, meaningfulMin, placeholderMax float64) (bool, error) {
	proc := NormalizeFieldName(name)
	if utf8.RuneCountInString(proc) < 4 {
		return false, nil
	}

	tokens := validTokens(proc)
	if len(tokens) == 0 {
		return false, nil
	}
	if !hasInformativeToken(tokens) {
		return false, nil
	}

	simMeaningful, err := o.sim(ctx, proc, meaningfulReference)
	if err != nil {
		return false, err
	}
	if simMeaningful < meaningfulMin {
		return false, nil
	}

	simPlaceholder, err := o.sim(ctx, proc, placeholderReference)
	if err != nil {
		return false, err
	}
	if simPlaceholder > placeholderMax {
		return false, nil
	}

	return true, nil
}

func validTokens(proc string) []string {
	raw := TokenizeName(proc)
	out := raw[:0]
	for _, tok := range raw {
		if isPunctToken(tok) || isNumericToken(tok) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// hasInformativeToken approximates a part-of-speech check: a token counts as
// informative when its expanded form is not a pure function word.
func hasInformativeToken(tokens []string) bool {
	for _, tok := range tokens {
		if expanded, ok := abbreviations[tok]; ok {
			tok = expanded
		}
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		if _, ok := functionWords[tok]; ok {
			continue
		}
		return true
	}
	return false
}

// functionWords holds determiners, pronouns, prepositions, conjunctions and
// bare auxiliaries that carry no descriptive weight on their own.
var functionWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "or": {}, "nor": {}, "but": {}, "if": {}, "then": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "by": {}, "for": {},
	"from": {}, "with": {}, "per": {}, "via": {}, "as": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"has": {}, "have": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"can": {}, "will": {}, "would": {}, "should": {}, "may": {},
	"it": {}, "its": {}, "this": {}, "that": {}, "my": {}, "our": {},
	"not": {}, "no": {}, "yes": {},
}

// abbreviations expands common column-name shorthand before the
// informative-token check, so that e.g. "emp_nm" reads as "employee name".
var abbreviations = map[string]string{
	"nm": "name", "dt": "date", "num": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "ph": "phone",
	"pwd": "password", "passwd": "password",
	"img": "image", "msg": "message", "txt": "text", "tit": "title",
	"doc": "document", "usr": "user", "emp": "employee",
	"dept": "department", "grp": "group", "cat": "category",
	"loc": "location", "lat": "latitude", "lng": "longitude", "lon": "longitude",
	"bal": "balance", "avg": "average", "uid": "id", "pid": "id",
	"reg": "registered", "mod": "modified", "del": "deleted", "cre": "created",
	"upd": "updated", "stat": "status", "sts": "status",
	"typ": "type", "val": "value", "ord": "order", "seq": "sequence",
	"idx": "index", "auth": "authority",
}
