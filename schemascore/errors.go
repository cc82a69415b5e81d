package schemascore

// Error codes reported to callers. Scoring never panics; every failure is
// returned as a *ScoreError so the caller can serialize it next to a Result.
const (
	CodeInvalidSchema = "Invalid schema input"
	CodeInvalidEntry  = "Invalid schema entry"
)

// ScoreError is a structured scoring failure, distinguishable from a
// successful Result by its error/message pair.
type ScoreError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ScoreError) Error() string {
	return e.Code + ": " + e.Message
}

func invalidSchema(msg string) *ScoreError {
	return &ScoreError{Code: CodeInvalidSchema, Message: msg}
}

func invalidEntry(msg string) *ScoreError {
	return &ScoreError{Code: CodeInvalidEntry, Message: msg}
}
