package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/eduquiz/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "eduquiz",
	Short: "AI study companion: quizzes, flashcards and learning paths",
	Long: "EduQuiz generates quizzes, learning kits and flashcards with an LLM, " +
		"plays them in the terminal and tracks your progress per grade and subject.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line and reports any error on stderr.
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		mode, _ := cmd.Flags().GetString("log")
		log := errorLogger(mode)
		defer log.Sync()
		reportError(cmd.ErrOrStderr(), log, cmd.CommandPath(), err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config.yaml (default $XDG_CONFIG_HOME/eduquiz/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides EDUQUIZ_DB)")
	pf.String("user", "", "Learner id that namespaces saved data (overrides EDUQUIZ_USER)")
	pf.String("store", "", "Storage backend: sqlite, redis or memory")
	pf.String("log", "", "Log mode: quiet, development or production")

	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(cardsCmd)
	rootCmd.AddCommand(kitCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration: defaults, then the YAML file, then
// .env and EDUQUIZ_* variables, then persistent flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Config{}, err
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if v, _ := flags.GetString("db"); v != "" {
		cfg.Storage.Path = v
	}
	if v, _ := flags.GetString("user"); v != "" {
		cfg.UserID = v
	}
	if v, _ := flags.GetString("store"); v != "" {
		cfg.Storage.Backend = v
	}
	if v, _ := flags.GetString("log"); v != "" {
		cfg.LogMode = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
