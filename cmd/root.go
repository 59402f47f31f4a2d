package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Vidhant007/cora/internal/api"
	"github.com/Vidhant007/cora/internal/assistant"
	"github.com/Vidhant007/cora/internal/config"
	"github.com/Vidhant007/cora/internal/display"
	"github.com/Vidhant007/cora/internal/executor"
	"github.com/Vidhant007/cora/internal/knowledge"
	"github.com/Vidhant007/cora/internal/logger"
)

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:   "cora [query]",
	Short: "Cloud Operations and Resource Assistant",
	Long: `CORA turns natural-language operations requests into AWS CLI commands,
runs them (with your confirmation), and summarizes the results.

Examples:
  cora "List all running EC2 instances in mumbai"
  cora -m gpt-4o "Which S3 buckets do I have?"
  cora -y "Show my lambda functions"    # skip confirmations
  cora -i                               # Interactive mode
  cora -ir                              # Interactive with markdown rendering`,
	Args: cobra.MaximumNArgs(1),
	Run:  run,
}

func init() {
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVarP(&cfg.Render, "render", "r", false, "Render answers as markdown")
	rootCmd.Flags().BoolVarP(&cfg.Interactive, "interactive", "i", false, "Interactive chat mode")
	rootCmd.Flags().BoolVarP(&cfg.Yes, "yes", "y", false, "Execute model-selected commands without confirmation")
	rootCmd.Flags().BoolVar(&cfg.LogToFile, "log-file", false, "Also write logs to a timestamped cora_*.log file")
	rootCmd.Flags().DurationVar(&cfg.ExecTimeout, "exec-timeout", executor.DefaultTimeout, "Command execution timeout (0 disables)")
	rootCmd.Flags().StringVarP(&cfg.Deployment, "deployment", "m", "", "Azure OpenAI deployment name (defaults to AZURE_OPENAI_DEPLOYMENT)")
}

func run(cmd *cobra.Command, args []string) {
	// Best effort; a missing .env is fine.
	_ = godotenv.Load()

	if err := cfg.Validate(); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}

	log, err := logger.New(cfg.Verbose, cfg.LogToFile)
	if err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}

	if cfg.Render {
		if err := display.InitRenderer(); err != nil {
			log.Warn("failed to initialize renderer", "err", err)
		}
	}

	a, policy, err := buildAssistant(log)
	if err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}

	if cfg.Interactive {
		runInteractive(a, policy)
		return
	}

	if len(args) == 0 {
		_ = cmd.Help()
		os.Exit(1)
	}

	answer := resolveWithSpinner(a, args[0])
	if cfg.Render {
		display.ShowContentRendered(answer)
	} else {
		display.ShowContent(answer)
	}
}

// buildAssistant wires the assistant from the validated configuration. The
// returned policy is nil when --yes disabled guarding.
func buildAssistant(log *slog.Logger) (*assistant.Assistant, *executor.GuardedPolicy, error) {
	exec := executor.New(log)
	exec.SetTimeout(cfg.ExecTimeout)

	opts := assistant.Options{
		Client:    api.NewClient(cfg, log),
		Knowledge: knowledge.Default(),
		Executor:  exec,
		Logger:    log,
	}

	var policy *executor.GuardedPolicy
	if cfg.Yes {
		opts.Policy = executor.AllowAll{}
	} else {
		policy = executor.NewGuardedPolicy()
		opts.Policy = policy
		opts.Confirm = confirmCommand
	}

	a, err := assistant.New(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build assistant: %w", err)
	}
	return a, policy, nil
}

// activeSpinner tracks the in-flight spinner so a confirmation prompt can
// clear it first. Queries are processed one at a time.
var activeSpinner *display.Spinner

func confirmCommand(command string) (allow bool, always bool) {
	if activeSpinner != nil {
		activeSpinner.Stop()
	}
	return display.AskCommandConfirmation(command)
}

func resolveWithSpinner(a *assistant.Assistant, query string) string {
	sp := display.NewSpinner("Thinking...")
	activeSpinner = sp
	sp.Start()
	answer := a.Resolve(context.Background(), query)
	sp.Stop()
	activeSpinner = nil
	return answer
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
