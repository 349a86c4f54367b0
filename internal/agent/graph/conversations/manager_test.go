package conversations

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacation/titanic-analyst/internal/agent/model"
	"github.com/datacation/titanic-analyst/internal/agent/repo"
)

func newManager(maxTurns int) *MessagesManager {
	var cfg model.ConversationConfig
	cfg.History.MaxTurns = maxTurns
	return NewMessagesManager(repo.NewMemoryConversationRepository(), cfg)
}

func TestBuildAnalystContext(t *testing.T) {
	ctx := context.Background()
	mm := newManager(10)

	require.NoError(t, mm.RecordUserMessage(ctx, "conv-1", "how many passengers?"))
	require.NoError(t, mm.SaveResponse(ctx, "conv-1", "There were 891 passengers."))
	require.NoError(t, mm.RecordUserMessage(ctx, "conv-1", "and how many survived?"))

	messages, err := mm.BuildAnalystContext(ctx, "conv-1", "You are a data analyst.")
	require.NoError(t, err)

	require.Len(t, messages, 4)
	assert.Equal(t, schema.System, messages[0].Role)
	assert.Equal(t, "You are a data analyst.", messages[0].Content)
	assert.Equal(t, schema.User, messages[1].Role)
	assert.Equal(t, schema.Assistant, messages[2].Role)
	assert.Equal(t, "and how many survived?", messages[3].Content)
}

func TestBuildAnalystContextTrimsHistory(t *testing.T) {
	ctx := context.Background()
	mm := newManager(3)

	for i := 0; i < 6; i++ {
		require.NoError(t, mm.RecordUserMessage(ctx, "conv-1", fmt.Sprintf("question %d", i)))
	}

	messages, err := mm.BuildAnalystContext(ctx, "conv-1", "system")
	require.NoError(t, err)

	// System prompt plus the three most recent turns.
	require.Len(t, messages, 4)
	assert.Equal(t, "question 3", messages[1].Content)
	assert.Equal(t, "question 5", messages[3].Content)
}

func TestBuildAnalystContextEmptyConversation(t *testing.T) {
	mm := newManager(5)

	messages, err := mm.BuildAnalystContext(context.Background(), "fresh", "system")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, schema.System, messages[0].Role)
}
