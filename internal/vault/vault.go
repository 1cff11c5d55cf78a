package vault

import (
	"context"

	"github.com/google/uuid"
)

// Tokenizer exchanges a primary account number for an opaque reference so
// that no full card number is ever persisted. In production this fronts an
// external payment processor's vault.
type Tokenizer interface {
	Tokenize(ctx context.Context, pan string) (string, error)
}

type localTokenizer struct{}

// NewLocal returns a tokenizer that mints opaque references locally. It
// keeps the storage contract (token in, PAN gone) without an external
// processor.
func NewLocal() Tokenizer {
	return localTokenizer{}
}

func (localTokenizer) Tokenize(ctx context.Context, pan string) (string, error) {
	return "card_" + uuid.NewString(), nil
}
