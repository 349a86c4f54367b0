package repo

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	require.NoError(t, r.AddMessage(ctx, "conv-1", schema.UserMessage("how many survived?")))
	require.NoError(t, r.AddMessage(ctx, "conv-1", schema.AssistantMessage("342 passengers survived.", nil)))
	require.NoError(t, r.AddMessage(ctx, "conv-2", schema.UserMessage("unrelated")))

	history, err := r.LoadHistory(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, schema.User, history.Messages[0].Role)
	assert.Equal(t, "how many survived?", history.Messages[0].Content)
	assert.Equal(t, schema.Assistant, history.Messages[1].Role)

	count, err := r.GetMessageCount(ctx, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryRepositoryClear(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	require.NoError(t, r.AddMessage(ctx, "conv-1", schema.UserMessage("hello")))
	require.NoError(t, r.ClearHistory(ctx, "conv-1"))

	history, err := r.LoadHistory(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)

	count, err := r.GetMessageCount(ctx, "conv-1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemoryRepositoryUnknownConversation(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	history, err := r.LoadHistory(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, history.Messages)
}
