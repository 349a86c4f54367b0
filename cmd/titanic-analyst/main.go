package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/datacation/titanic-analyst/internal/agent/model"
	"github.com/datacation/titanic-analyst/internal/core"
	"github.com/datacation/titanic-analyst/internal/dataset"
	logx "github.com/datacation/titanic-analyst/pkg/logger"
	pkgredis "github.com/datacation/titanic-analyst/pkg/redis"
)

// AppConfig defines all configurable parameters for the analyst, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Env string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure. Redis is optional: when no URL is configured the
	// conversation history lives in memory for the life of the process.
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Analyst      model.AnalystModelConfig
	Conversation model.ConversationConfig
	Knowledge    model.KnowledgeConfig
	Search       model.SearchConfig

	// Dataset pipeline
	Pipeline dataset.PipelineConfig
}

var (
	cfg     AppConfig
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "titanic-analyst",
	Short: "An agentic data analyst for the Titanic passenger dataset",
	Long: `titanic-analyst answers questions about the Titanic passenger dataset.

It drives a Gemini model through a tool loop (SQL over a local SQLite copy
of the dataset, web search, and a persistent knowledge store) and records
what it learns so later sessions start smarter.

Run 'titanic-analyst pipeline' once to fetch the dataset, then 'chat' or
'ask' to analyze it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: Could not load .env file: %v", err)
		}
		if err := envconfig.Process("", &cfg); err != nil {
			return fmt.Errorf("process environment config: %w", err)
		}
		logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Env)})
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "dump model and tool traffic")
	rootCmd.AddCommand(pipelineCmd, statsCmd, schemaCmd, askCmd, chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
