package cmd

import (
	"fmt"
	"strings"

	"github.com/c-bata/go-prompt"

	"github.com/Vidhant007/cora/internal/assistant"
	"github.com/Vidhant007/cora/internal/display"
	"github.com/Vidhant007/cora/internal/executor"
	"github.com/Vidhant007/cora/internal/knowledge"
)

// interactiveSession holds the state for interactive mode. Each input line
// is resolved independently; no conversation state survives between lines.
type interactiveSession struct {
	assistant *assistant.Assistant
	policy    *executor.GuardedPolicy
	kb        *knowledge.Base
	exitFlag  bool
}

// completer provides auto-suggestions for slash commands
func (s *interactiveSession) completer(d prompt.Document) []prompt.Suggest {
	text := d.TextBeforeCursor()
	if !strings.HasPrefix(text, "/") {
		return []prompt.Suggest{}
	}

	suggestions := []prompt.Suggest{
		{Text: "/exit", Description: "Exit interactive mode"},
		{Text: "/quit", Description: "Exit interactive mode"},
		{Text: "/q", Description: "Exit interactive mode"},
		{Text: "/help", Description: "Show available commands"},
		{Text: "/h", Description: "Show available commands"},
		{Text: "/examples", Description: "Search the knowledge base directly"},
		{Text: "/allow-dangerous", Description: "Enable dangerous commands (with confirmation)"},
		{Text: "/show-permissions", Description: "Show command execution permissions"},
	}

	return prompt.FilterHasPrefix(suggestions, d.GetWordBeforeCursor(), true)
}

func runInteractive(a *assistant.Assistant, policy *executor.GuardedPolicy) {
	fmt.Println("CORA - Interactive Mode")
	fmt.Printf("Deployment: %s\n", cfg.Deployment)
	if cfg.Yes {
		fmt.Println("Confirmations: disabled (--yes)")
	}
	fmt.Println("Type /help for commands, Ctrl+D to quit")
	fmt.Println()

	session := &interactiveSession{
		assistant: a,
		policy:    policy,
		kb:        knowledge.Default(),
	}

	p := prompt.New(
		session.execute,
		session.completer,
		prompt.OptionPrefix("> "),
		prompt.OptionTitle("CORA"),
		prompt.OptionPrefixTextColor(prompt.Green),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionSuggestionTextColor(prompt.White),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSelectedSuggestionTextColor(prompt.Black),
		prompt.OptionMaxSuggestion(10),
		prompt.OptionSetExitCheckerOnInput(func(_ string, breakline bool) bool {
			return session.exitFlag && breakline
		}),
	)

	p.Run()
}

// execute handles one input line
func (s *interactiveSession) execute(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	if strings.HasPrefix(input, "/") {
		if s.handleCommand(input) {
			fmt.Println("Goodbye!")
			s.exitFlag = true
		}
		return
	}

	fmt.Println()
	answer := resolveWithSpinner(s.assistant, input)
	if cfg.Render {
		display.ShowContentRendered(answer)
	} else {
		display.ShowContent(answer)
	}
	fmt.Println()
}

func (s *interactiveSession) handleCommand(input string) bool {
	parts := strings.SplitN(input, " ", 2)
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case "/exit", "/quit", "/q":
		return true

	case "/help", "/h":
		fmt.Println("\nCommands:")
		fmt.Printf("  %-24s %s\n", "/exit, /quit, /q", "Exit interactive mode")
		fmt.Printf("  %-24s %s\n", "/examples <query>", "Search the knowledge base directly")
		fmt.Printf("  %-24s %s\n", "/allow-dangerous", "Allow dangerous commands (with confirmation)")
		fmt.Printf("  %-24s %s\n", "/show-permissions", "Show command execution permissions")
		fmt.Printf("  %-24s %s\n", "/help, /h", "Show this help")
		fmt.Println()

	case "/examples":
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			fmt.Println("Usage: /examples <query>")
			return false
		}
		fmt.Println(s.kb.Search(strings.TrimSpace(parts[1])))

	case "/allow-dangerous":
		if s.policy == nil {
			fmt.Println("Policy checks are disabled (--yes); nothing to enable")
			return false
		}
		s.policy.EnableDangerous()
		fmt.Println("Dangerous commands enabled for this session")
		fmt.Println("Note: You will still be asked to confirm before execution")

	case "/show-permissions":
		if s.policy == nil {
			fmt.Println("Policy checks are disabled (--yes)")
			return false
		}
		display.ShowPermissionSettings(s.policy.Settings())

	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		fmt.Println("Type /help for available commands")
	}

	return false
}
