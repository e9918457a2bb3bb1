package retrieval

import "fmt"

// ModelMismatchError reports a document embedded with a different model than
// the query. Surfaced to the caller, never silently ignored: cross-model
// similarity scores are meaningless.
type ModelMismatchError struct {
	QueryModel string
	StoreModel string
	DocumentID string
}

func (e *ModelMismatchError) Error() string {
	return fmt.Sprintf("embedding model mismatch: query uses %q but document %s was embedded with %q",
		e.QueryModel, e.DocumentID, e.StoreModel)
}
