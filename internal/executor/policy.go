package executor

import (
	"sync"
)

// Policy decides whether the assistant may execute a command. It is an
// injected capability: callers choose how confirmation is obtained.
type Policy interface {
	// Check returns (allowed, needsConfirm, reason). A command that is
	// neither allowed nor confirmable is blocked.
	Check(cmd string) (allowed bool, needsConfirm bool, reason string)
}

// AllowAll executes everything without confirmation (pass-through parity
// with the original flow, opted into with --yes).
type AllowAll struct{}

func (AllowAll) Check(string) (bool, bool, string) {
	return true, false, "all commands allowed by policy"
}

// GuardedPolicy classifies commands by risk: read-only commands are
// auto-approved, state-changing ones need confirmation, destructive ones
// are blocked unless dangerous mode is enabled.
type GuardedPolicy struct {
	mu               sync.RWMutex
	alwaysAllow      map[string]bool
	dangerousEnabled bool
	autoAllowReads   bool
}

// NewGuardedPolicy creates a policy with safe defaults.
func NewGuardedPolicy() *GuardedPolicy {
	return &GuardedPolicy{
		alwaysAllow:    make(map[string]bool),
		autoAllowReads: true,
	}
}

// Check implements Policy.
func (p *GuardedPolicy) Check(cmd string) (allowed bool, needsConfirm bool, reason string) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.alwaysAllow[cmd] {
		return true, false, "Previously approved by user"
	}

	switch ClassifyCommand(cmd) {
	case Safe:
		if p.autoAllowReads {
			return true, false, "Safe read-only command"
		}
		return false, true, "Needs confirmation"

	case NeedsConfirm:
		return false, true, "Command may modify cloud or system state"

	case Dangerous:
		if p.dangerousEnabled {
			return false, true, "Dangerous command (requires explicit confirmation)"
		}
		return false, false, "Dangerous command blocked (use /allow-dangerous to enable)"
	}

	return false, true, "Unknown command type"
}

// AddToAllowlist marks a command as always allowed.
func (p *GuardedPolicy) AddToAllowlist(cmd string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alwaysAllow[cmd] = true
}

// EnableDangerous enables execution of dangerous commands (with confirmation).
func (p *GuardedPolicy) EnableDangerous() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dangerousEnabled = true
}

// DisableDangerous disables execution of dangerous commands.
func (p *GuardedPolicy) DisableDangerous() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dangerousEnabled = false
}

// SetAutoAllowReads sets whether safe read-only commands run unconfirmed.
func (p *GuardedPolicy) SetAutoAllowReads(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.autoAllowReads = enabled
}

// Settings returns the current policy settings for display.
func (p *GuardedPolicy) Settings() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"auto_allow_reads":  p.autoAllowReads,
		"dangerous_enabled": p.dangerousEnabled,
		"allowlist_count":   len(p.alwaysAllow),
	}
}

// ClearAllowlist clears all previously approved commands.
func (p *GuardedPolicy) ClearAllowlist() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alwaysAllow = make(map[string]bool)
}
