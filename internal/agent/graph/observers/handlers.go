package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates all observer handlers (prompt, tool, model) into one callbacks.Handler.
func NewAllCallbacks(verbose bool) einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Tool(newToolHandler(verbose)).
		ChatModel(newModelHandler(verbose)).
		Prompt(newPromptHandler(verbose)).
		Handler()
}
