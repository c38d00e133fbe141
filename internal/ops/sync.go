package ops

import (
	"context"

	"github.com/tmercier/pressroom/internal/item"
)

// SyncOutput reports the per-scope outcome of a reconciliation run.
type SyncOutput struct {
	Skipped bool        `json:"skipped,omitempty"`
	Scopes  []SyncScope `json:"scopes,omitempty"`
}

// SyncScope is one collection's sync result.
type SyncScope struct {
	Kind    item.Kind `json:"kind"`
	Full    bool      `json:"full"`
	Fetched int       `json:"fetched"`
	Error   string    `json:"error,omitempty"`
}

// Sync reconciles the mirror against the remote collections. Scopes
// commit independently, so the output is returned even when the run
// reports an error for some of them.
func Sync(ctx context.Context, env *Env) (*SyncOutput, error) {
	result, err := env.Syncer.Run(ctx)
	if result == nil {
		return nil, err
	}

	out := &SyncOutput{Skipped: result.Skipped}
	for _, sc := range result.Scopes {
		scope := SyncScope{Kind: sc.Kind, Full: sc.Full, Fetched: sc.Fetched}
		if sc.Err != nil {
			scope.Error = sc.Err.Error()
		}
		out.Scopes = append(out.Scopes, scope)
	}
	return out, err
}
