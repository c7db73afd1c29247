package engine

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
)

// Replay rebuilds a game by applying a recorded action journal to a fresh
// controller created from the same options.
func Replay(opts Options, actions []core.Action) (*Controller, error) {
	c, err := New(opts)
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		c.Apply(a)
	}
	return c, nil
}

// ReplayEncoded is Replay for a journal in core.EncodeActions form.
func ReplayEncoded(opts Options, encoded string) (*Controller, error) {
	actions, err := core.DecodeActions(encoded)
	if err != nil {
		return nil, fmt.Errorf("engine: replay: %w", err)
	}
	return Replay(opts, actions)
}
