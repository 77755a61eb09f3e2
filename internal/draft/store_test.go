package draft

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rrens/interaction-drafts/internal/config"
	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/Rrens/interaction-drafts/internal/sanitize"
	"github.com/Rrens/interaction-drafts/internal/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBackend mocks the Backend interface
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) Read(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockBackend) Write(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func newRepo() *workspace.Repository {
	return workspace.NewRepository(config.EditorConfig{DefaultRole: "assistant", DefaultAgentName: "Agent"}, sanitize.New())
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newRepo()
	store := NewStore(NewMemoryBackend(), "draft", repo)

	name := "Planner"
	ws, _ := repo.Create(repo.Default(), domain.InteractionInput{AgentName: &name, Variables: []string{"A"}})

	require.True(t, store.Save(ctx, ws))

	loaded, ok := store.Load(ctx)
	require.True(t, ok)
	require.Len(t, loaded, 2)
	assert.Equal(t, ws.IDs(), loaded.IDs())
	assert.Equal(t, "Planner", loaded[1].AgentName)
	assert.True(t, ws[1].CreatedAt.Equal(loaded[1].CreatedAt))
}

func TestStore_LoadMisses(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		doc  string
	}{
		{"corrupted", `[{"id":`},
		{"not an array", `{"id":"a"}`},
		{"empty array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMemoryBackend()
			require.NoError(t, backend.Write(ctx, "draft", []byte(tt.doc)))

			ws, ok := NewStore(backend, "draft", newRepo()).Load(ctx)
			assert.False(t, ok)
			assert.Nil(t, ws)
		})
	}

	t.Run("absent", func(t *testing.T) {
		_, ok := NewStore(NewMemoryBackend(), "draft", newRepo()).Load(ctx)
		assert.False(t, ok)
	})

	t.Run("read failure", func(t *testing.T) {
		backend := new(MockBackend)
		backend.On("Read", ctx, "draft").Return(nil, errors.New("disk on fire"))

		_, ok := NewStore(backend, "draft", newRepo()).Load(ctx)
		assert.False(t, ok)
		backend.AssertExpectations(t)
	})
}

func TestStore_LoadNormalizesPartialRecords(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	doc := `[{"id":"a","role":"bogus","variables":["x","x"," "]},"junk",{"id":"a","content":"<script>x</script><b>ok</b>"}]`
	require.NoError(t, backend.Write(ctx, "draft", []byte(doc)))

	ws, ok := NewStore(backend, "draft", newRepo()).Load(ctx)
	require.True(t, ok)
	require.Len(t, ws, 3)

	assert.Equal(t, "a", ws[0].ID)
	assert.Equal(t, domain.RoleAssistant, ws[0].Role)
	assert.Equal(t, []string{"x"}, ws[0].Variables)
	assert.Equal(t, "Agent", ws[1].AgentName)
	assert.NotEqual(t, "a", ws[2].ID)
	assert.Equal(t, "<b>ok</b>", ws[2].Content)
}

func TestStore_SaveFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	backend := new(MockBackend)
	backend.On("Write", ctx, "draft", mock.Anything).Return(errors.New("quota exceeded"))

	repo := newRepo()
	ok := NewStore(backend, "draft", repo).Save(ctx, repo.Default())
	assert.False(t, ok)
	backend.AssertExpectations(t)
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	backend := NewFileBackend(dir)

	_, err := backend.Read(ctx, "agent/drafts")
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)

	require.NoError(t, backend.Write(ctx, "agent/drafts", []byte(`[1]`)))
	require.NoError(t, backend.Write(ctx, "agent/drafts", []byte(`[2]`)))

	data, err := backend.Read(ctx, "agent/drafts")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "agent_drafts.json", entries[0].Name())
}
