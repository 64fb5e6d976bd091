package contract

import "context"

// AnswerIndex answers free-form questions from a search index. It is an
// external collaborator; the core only consumes the best answer text.
// An empty answer with a nil error means the index had nothing useful.
type AnswerIndex interface {
	Search(ctx context.Context, query string) (string, error)
}
