package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/datacation/titanic-analyst/internal/agent/model"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive analysis session",
	Long: `Starts an interactive session against the dataset. The analyst keeps
conversation context across questions and records what it learns into the
knowledge store, so later sessions pick up where earlier ones left off.

Type 'exit' or 'quit' to leave, 'insights' to list saved insights.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		sess, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer sess.cleanup()

		conversationID := uuid.NewString()
		fmt.Println("Titanic analyst ready. Ask a question, or 'exit' to leave.")
		if n := sess.knowledge.InsightCount(); n > 0 {
			fmt.Printf("Loaded %d insight(s) from previous sessions.\n", n)
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}
			switch strings.ToLower(question) {
			case "exit", "quit":
				return scanner.Err()
			case "insights":
				printInsights(sess)
				continue
			}

			if prior := sess.knowledge.SimilarAnalyses(question); len(prior) > 0 {
				fmt.Printf("(%d related analyses on record)\n", len(prior))
			}

			result, err := sess.runner.Invoke(ctx, model.QueryInput{
				ConversationID: conversationID,
				Query:          question,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
				continue
			}

			fmt.Println(result.Answer)
			sess.recordStep(question, result)
		}
		return scanner.Err()
	},
}

func printInsights(sess *session) {
	insights := sess.knowledge.RelevantInsights("")
	if len(insights) == 0 {
		fmt.Println("No insights saved yet.")
		return
	}
	for i, ins := range insights {
		fmt.Printf("%d. [%s] %s (confidence %.2f)\n", i+1, ins.Category, ins.Description, ins.Confidence)
	}
}
