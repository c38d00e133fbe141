package ops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmercier/pressroom/internal/item"
)

// TestWorkflow_CreateSyncIncremental walks the create -> full sync ->
// empty incremental path and checks the mirror never duplicates or loses
// the record.
func TestWorkflow_CreateSyncIncremental(t *testing.T) {
	env, remote, _ := testEnv(t)
	ctx := context.Background()

	// The remote keeps its own state for this test.
	var remoteItems []item.ContentItem
	remote.createContent = func(ctx context.Context, title string, status item.Status) (item.ContentItem, error) {
		it := item.ContentItem{ID: "remote-1", Title: title, Status: status, LastEdited: time.Now().UTC()}
		remoteItems = append(remoteItems, it)
		return it, nil
	}
	var lastSince *time.Time
	queried := 0
	remote.queryContent = func(ctx context.Context, since *time.Time) ([]item.ContentItem, error) {
		queried++
		lastSince = since
		if since == nil {
			return append([]item.ContentItem(nil), remoteItems...), nil
		}
		return nil, nil // nothing edited after the watermark
	}

	added, err := QuickAdd(ctx, env, QuickAddInput{Title: "Lancer le produit"})
	require.NoError(t, err)
	require.Equal(t, "remote-1", added.Item.ID)

	// First sync is full and must return the created item unchanged.
	syncOut, err := Sync(ctx, env)
	require.NoError(t, err)
	require.Len(t, syncOut.Scopes, 3)
	for _, sc := range syncOut.Scopes {
		require.True(t, sc.Full, "cold start must run full for %s", sc.Kind)
		require.Empty(t, sc.Error)
	}
	require.Nil(t, lastSince)

	listed, err := List(env, ListInput{})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1, "exactly one mirror entry after create+sync")
	requireSameItem(t, added.Item, listed.Items[0])

	// Second sync is incremental with nothing changed: no duplication,
	// no loss.
	syncOut, err = Sync(ctx, env)
	require.NoError(t, err)
	for _, sc := range syncOut.Scopes {
		require.False(t, sc.Full, "second sync must be incremental for %s", sc.Kind)
	}
	require.NotNil(t, lastSince, "incremental sync must pass the watermark")
	require.Equal(t, 2, queried)

	listed, err = List(env, ListInput{})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	requireSameItem(t, added.Item, listed.Items[0])
}

// requireSameItem compares items field by field; timestamps compare as
// instants because the mirror round-trips them through JSON.
func requireSameItem(t *testing.T, want, got item.ContentItem) {
	t.Helper()
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Title, got.Title)
	require.Equal(t, want.Status, got.Status)
	require.Equal(t, want.Body, got.Body)
	require.True(t, want.LastEdited.Equal(got.LastEdited),
		"LastEdited %v != %v", want.LastEdited, got.LastEdited)
}
