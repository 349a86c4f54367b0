package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/datacation/titanic-analyst/internal/agent/model"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the analyst a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		question := strings.Join(args, " ")

		sess, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer sess.cleanup()

		result, err := sess.runner.Invoke(ctx, model.QueryInput{
			ConversationID: uuid.NewString(),
			Query:          question,
		})
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}

		fmt.Println(result.Answer)
		sess.recordStep(question, result)
		return nil
	},
}
