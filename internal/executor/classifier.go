package executor

import (
	"regexp"
	"strings"
)

// RiskLevel represents the risk level of a command
type RiskLevel int

const (
	// Safe commands are read-only and auto-approved
	Safe RiskLevel = iota
	// NeedsConfirm commands modify state and require user confirmation
	NeedsConfirm
	// Dangerous commands are potentially destructive and blocked by default
	Dangerous
)

// Safe read-only commands that can be auto-executed
var safeCommands = []string{
	"ls", "cat", "pwd", "echo", "head", "tail", "grep", "find",
	"which", "whoami", "date", "wc", "sort", "uniq", "diff",
	"env", "printenv", "df", "du", "ps", "tree",
}

// Safe command patterns (regex) for read-only cloud operations
var safePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^aws\s+\S+\s+(describe|list|get)-`),
	regexp.MustCompile(`^aws\s+s3\s+ls`),
	regexp.MustCompile(`^aws\s+sts\s+get-caller-identity`),
	regexp.MustCompile(`^aws\s+\S+\s+head-`),
	regexp.MustCompile(`^az\s+\S+\s+(list|show)`),
	regexp.MustCompile(`^gcloud\s+\S+\s+(list|describe)`),
	regexp.MustCompile(`^kubectl\s+(get|describe|logs)`),
	regexp.MustCompile(`^docker\s+(ps|images|inspect|logs)`),
	regexp.MustCompile(`^git\s+(status|log|diff|branch|show|remote)`),
}

// Dangerous command patterns that are blocked by default
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`rm\s+(-[rf]*\s+)?/`),       // rm -rf / or variations
	regexp.MustCompile(`sudo`),                     // Any sudo command
	regexp.MustCompile(`dd\s+if=`),                 // dd commands
	regexp.MustCompile(`mkfs`),                     // Format filesystem
	regexp.MustCompile(`:\(\)\{`),                  // Fork bomb
	regexp.MustCompile(`curl.*\|\s*(sh|bash|zsh)`), // Pipe to shell
	regexp.MustCompile(`wget.*\|\s*(sh|bash|zsh)`), // Pipe to shell
	regexp.MustCompile(`>\s*/dev/sd`),              // Write to disk device
	regexp.MustCompile(`aws\s+\S+\s+delete-`),      // AWS resource deletion
	regexp.MustCompile(`aws\s+\S+\s+terminate-`),   // Instance termination
	regexp.MustCompile(`aws\s+s3\s+(rb|rm)\s`),     // Bucket/object removal
	regexp.MustCompile(`az\s+\S+\s+delete`),        // Azure resource deletion
	regexp.MustCompile(`gcloud\s+\S+\s+delete`),    // GCP resource deletion
	regexp.MustCompile(`kubectl\s+delete`),         // Kubernetes deletion
}

// ClassifyCommand determines the risk level of a shell command
func ClassifyCommand(cmd string) RiskLevel {
	cmd = strings.TrimSpace(cmd)

	if cmd == "" {
		return Dangerous
	}

	// Check dangerous patterns first (highest priority)
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(cmd) {
			return Dangerous
		}
	}

	// Extract first word (command name)
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return Dangerous
	}
	firstWord := fields[0]

	// Check if it's a known safe command
	for _, safe := range safeCommands {
		if firstWord == safe {
			return Safe
		}
	}

	// Check safe patterns
	for _, pattern := range safePatterns {
		if pattern.MatchString(cmd) {
			return Safe
		}
	}

	// Default: needs confirmation for anything that modifies state
	return NeedsConfirm
}

// GetRiskDescription returns a human-readable description of the risk level
func GetRiskDescription(level RiskLevel) string {
	switch level {
	case Safe:
		return "Safe read-only command"
	case NeedsConfirm:
		return "Command may modify cloud or system state"
	case Dangerous:
		return "Potentially destructive command"
	default:
		return "Unknown risk level"
	}
}
