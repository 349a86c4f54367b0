package observers

import (
	"context"
	"fmt"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// newToolHandler builds a typed ToolCallbackHandler reporting tool
// invocations. Quiet mode prints a one-line progress marker per call so
// the user can see which tool the analyst reached for.
func newToolHandler(verbose bool) *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			if !verbose {
				fmt.Printf("... running %s\n", info.Name)
				return ctx
			}
			fmt.Printf("[Tool|%s|%s] start\n", info.Type, info.Name)
			if input != nil {
				if args := strings.TrimSpace(input.ArgumentsInJSON); args != "" {
					fmt.Printf("args: %s\n", args)
				}
			}
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			if !verbose {
				return ctx
			}
			fmt.Printf("[Tool|%s|%s] end\n", info.Type, info.Name)
			if output != nil {
				if resp := strings.TrimSpace(output.Response); resp != "" {
					fmt.Printf("result: %s\n", truncate(resp, 500))
				}
			}
			fmt.Println("=================================================")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			fmt.Printf("[Tool|%s|%s] error: %v\n", info.Type, info.Name, err)
			return ctx
		},
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
