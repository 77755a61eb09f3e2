package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftBackend(t *testing.T) {
	ctx := context.Background()
	backend, err := Open(ctx, filepath.Join(t.TempDir(), "data", "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	_, err = backend.Read(ctx, "agent-interactions-draft")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	require.NoError(t, backend.Write(ctx, "agent-interactions-draft", []byte(`[{"id":"a"}]`)))
	require.NoError(t, backend.Write(ctx, "agent-interactions-draft", []byte(`[{"id":"b"}]`)))
	require.NoError(t, backend.Write(ctx, "other", []byte(`[]`)))

	data, err := backend.Read(ctx, "agent-interactions-draft")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"b"}]`, string(data))
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
