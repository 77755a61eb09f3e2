package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDocument_NonArrayIsEmpty(t *testing.T) {
	for _, doc := range []string{`{}`, `"text"`, `42`, `null`} {
		inputs, err := DecodeDocument([]byte(doc))
		require.NoError(t, err, doc)
		assert.Empty(t, inputs, doc)
	}
}

func TestDecodeDocument_InvalidJSON(t *testing.T) {
	_, err := DecodeDocument([]byte(`[{"id":`))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDecodeDocument_TolerantElements(t *testing.T) {
	doc := `[
		{"id":"a","agentName":"Planner","role":"user","variables":["X",1,"Y"],"createdAt":"2024-01-02T03:04:05Z","updatedAt":"garbage"},
		7,
		{"agentName":12,"variables":"ONE\nTWO"}
	]`

	inputs, err := DecodeDocument([]byte(doc))
	require.NoError(t, err)
	require.Len(t, inputs, 3)

	first := inputs[0]
	require.NotNil(t, first.ID)
	assert.Equal(t, "a", *first.ID)
	assert.Equal(t, "Planner", *first.AgentName)
	assert.Equal(t, []string{"X", "Y"}, first.Variables)
	require.NotNil(t, first.CreatedAt)
	assert.True(t, first.CreatedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Nil(t, first.UpdatedAt)

	assert.Equal(t, InteractionInput{}, inputs[1])

	assert.Nil(t, inputs[2].AgentName)
	assert.Equal(t, []string{"ONE", "TWO"}, inputs[2].Variables)
}

func TestEncodeDocument_PrettyUsesTwoSpaces(t *testing.T) {
	ws := Workspace{{ID: "a", Role: RoleUser}}
	data, err := EncodeDocument(ws, true)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"a\"")
	assert.Contains(t, string(data), `"variables": []`)
}
