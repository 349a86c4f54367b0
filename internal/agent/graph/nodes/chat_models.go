package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/datacation/titanic-analyst/internal/agent/model"
	logx "github.com/datacation/titanic-analyst/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Analyst *model.AnalystModelConfig
}

// AnalystModel wraps the Gemini chat model used for analysis, keeping the
// model name alongside for cost accounting.
type AnalystModel struct {
	Chat      *gemini.ChatModel
	ModelName string
}

// NewAnalystModel creates the analyst chat model with the given configuration.
func NewAnalystModel(ctx context.Context, config ChatModelConfig) (*AnalystModel, error) {
	if config.Analyst == nil {
		return nil, fmt.Errorf("analyst model config is nil")
	}
	if err := config.Analyst.Validate(); err != nil {
		return nil, fmt.Errorf("invalid analyst model config: %w", err)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Analyst.Model,
		Temperature: &config.Analyst.Temperature,
		MaxTokens:   &config.Analyst.MaxTokens,
		TopP:        &config.Analyst.TopP,
		TopK:        &config.Analyst.TopK,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating analyst model")
		return nil, fmt.Errorf("error creating analyst model: %w", err)
	}

	return &AnalystModel{
		Chat:      chatModel,
		ModelName: config.Analyst.Model,
	}, nil
}

// BindTools binds the analyst tool set to the chat model.
func (am *AnalystModel) BindTools(ctx context.Context, tools []*schema.ToolInfo) error {
	if err := am.Chat.BindTools(tools); err != nil {
		logx.Error().Err(err).Msg("Failed to bind tools")
		return fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Msg("Successfully bound tools to analyst model")
	return nil
}

// NewAnalystChatModelNode creates a wrapper for the analyst chat model to be used as a node
func NewAnalystChatModelNode(am *AnalystModel) *gemini.ChatModel {
	return am.Chat
}
