// Package calculations keeps a log of every rebalance and tail-risk calculation served.
package calculations

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind identifies which calculation produced a record
type Kind string

const (
	KindRebalance Kind = "rebalance"
	KindTailRisk  Kind = "tail_risk"
)

// Valid reports whether k is a known calculation kind
func (k Kind) Valid() bool {
	return k == KindRebalance || k == KindTailRisk
}

// ParseKind converts a query value to a Kind. Empty input means "any kind".
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return "", nil
	}
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown calculation kind %q", s)
	}
	return k, nil
}

// Record is one logged calculation. Input and Output hold msgpack-encoded payloads.
type Record struct {
	ID        string
	Kind      Kind
	Input     []byte
	Output    []byte // nil when the calculation failed
	Error     string
	CreatedAt time.Time
}

// RecordView is the decoded, JSON-friendly form of a Record
type RecordView struct {
	ID        string      `json:"id"`
	Kind      Kind        `json:"kind"`
	Input     interface{} `json:"input"`
	Output    interface{} `json:"output,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt string      `json:"created_at"`
}

// View decodes the msgpack payloads of r
func (r *Record) View() (*RecordView, error) {
	view := &RecordView{
		ID:        r.ID,
		Kind:      r.Kind,
		Error:     r.Error,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}

	if err := msgpack.Unmarshal(r.Input, &view.Input); err != nil {
		return nil, fmt.Errorf("failed to decode input of calculation %s: %w", r.ID, err)
	}

	if len(r.Output) > 0 {
		if err := msgpack.Unmarshal(r.Output, &view.Output); err != nil {
			return nil, fmt.Errorf("failed to decode output of calculation %s: %w", r.ID, err)
		}
	}

	return view, nil
}
