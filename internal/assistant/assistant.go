package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Vidhant007/cora/internal/api"
	"github.com/Vidhant007/cora/internal/executor"
	"github.com/Vidhant007/cora/internal/knowledge"
)

// SystemPrompt fixes the assistant persona and domain for every query.
const SystemPrompt = "You are CORA, a Cloud Operations and Resource Assistant. " +
	"You help users interact with AWS resources using AWS CLI commands."

// CompletionClient is the remote completion service as the assistant sees
// it: one round-trip in, one reply out.
type CompletionClient interface {
	Complete(ctx context.Context, messages []api.Message, functions []api.FunctionDefinition) (*api.Reply, error)
}

// ConfirmFunc asks whether a command may run. The second return value
// requests that the approval be remembered for the session.
type ConfirmFunc func(command string) (allow bool, always bool)

// Options configures an Assistant. Client and Executor are required.
type Options struct {
	Client    CompletionClient
	Knowledge *knowledge.Base
	Executor  *executor.Executor
	Policy    executor.Policy
	Confirm   ConfirmFunc
	Logger    *slog.Logger
}

// Assistant resolves natural-language operations queries through the
// completion service, the knowledge base, and the command executor. One
// query is processed start to finish; the knowledge base and client may be
// shared across concurrent Resolve calls, the message history never is.
type Assistant struct {
	client  CompletionClient
	kb      *knowledge.Base
	exec    *executor.Executor
	policy  executor.Policy
	confirm ConfirmFunc
	logger  *slog.Logger
}

// New constructs an Assistant. Construction failures propagate to the
// caller; everything after construction is contained inside Resolve.
func New(opts Options) (*Assistant, error) {
	if opts.Client == nil {
		return nil, errors.New("assistant: completion client is required")
	}
	if opts.Executor == nil {
		return nil, errors.New("assistant: executor is required")
	}
	if opts.Knowledge == nil {
		opts.Knowledge = knowledge.Default()
	}
	if opts.Policy == nil {
		// Pass-through parity with the original flow.
		opts.Policy = executor.AllowAll{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Assistant{
		client:  opts.Client,
		kb:      opts.Knowledge,
		exec:    opts.Executor,
		policy:  opts.Policy,
		confirm: opts.Confirm,
		logger:  opts.Logger,
	}, nil
}

// Resolve answers one user query. At most one function invocation is made;
// the second completion round carries no function declarations. Resolve
// never returns an error: every failure is rendered as text.
func (a *Assistant) Resolve(ctx context.Context, userQuery string) string {
	a.logger.Info("processing query", "query", userQuery)

	examples := a.kb.Search(userQuery)
	a.logger.Debug("retrieved examples", "examples", examples)

	messages := []api.Message{
		{Role: api.RoleSystem, Content: SystemPrompt},
		{
			Role:    api.RoleUser,
			Content: fmt.Sprintf("Query: %s\nRelevant AWS CLI examples:\n%s", userQuery, examples),
		},
	}

	reply, err := a.client.Complete(ctx, messages, api.DefaultFunctions())
	if err != nil {
		return a.errorText(err)
	}

	if reply.FunctionCall == nil {
		// Direct answer; the content is propagated as-is, even when empty.
		return reply.Content
	}

	a.logger.Info("function call selected", "function", reply.FunctionCall.Name)
	result, err := a.dispatch(ctx, reply.FunctionCall)
	if err != nil {
		return a.errorText(err)
	}

	messages = append(messages,
		api.Message{Role: api.RoleAssistant, FunctionCall: reply.FunctionCall},
		api.Message{Role: api.RoleFunction, Name: reply.FunctionCall.Name, Content: result},
	)

	final, err := a.client.Complete(ctx, messages, nil)
	if err != nil {
		return a.errorText(err)
	}
	return final.Content
}

// dispatch validates the selected function's argument payload against its
// declared schema and runs it.
func (a *Assistant) dispatch(ctx context.Context, call *api.FunctionCall) (string, error) {
	switch call.Name {
	case api.FuncExecuteAWSCLI:
		var args struct {
			Command string `json:"command"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", &MalformedArgumentsError{Function: call.Name, Err: err}
		}
		if strings.TrimSpace(args.Command) == "" {
			return "", &MalformedArgumentsError{
				Function: call.Name,
				Err:      errors.New(`missing required field "command"`),
			}
		}
		return a.runCommand(ctx, args.Command), nil

	case api.FuncGetAWSCLIExample:
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", &MalformedArgumentsError{Function: call.Name, Err: err}
		}
		if strings.TrimSpace(args.Query) == "" {
			return "", &MalformedArgumentsError{
				Function: call.Name,
				Err:      errors.New(`missing required field "query"`),
			}
		}
		return a.kb.Search(args.Query), nil

	default:
		return "", fmt.Errorf("model selected unknown function %q", call.Name)
	}
}

// runCommand checks the execution policy, obtains confirmation when the
// policy asks for it, and runs the command. Denials and blocks become
// function-result text so the second round can explain them to the user.
func (a *Assistant) runCommand(ctx context.Context, command string) string {
	allowed, needsConfirm, reason := a.policy.Check(command)

	if !allowed && !needsConfirm {
		a.logger.Warn("command blocked by policy", "command", command, "reason", reason)
		return "Command blocked: " + reason
	}

	if !allowed && needsConfirm {
		if a.confirm == nil {
			a.logger.Warn("command needs confirmation but none is available", "command", command)
			return "Command execution denied: confirmation unavailable"
		}
		allow, always := a.confirm(command)
		if !allow {
			return "Command execution denied by user"
		}
		if always {
			if rec, ok := a.policy.(interface{ AddToAllowlist(string) }); ok {
				rec.AddToAllowlist(command)
			}
		}
	}

	return a.exec.Run(ctx, command).Text()
}

func (a *Assistant) errorText(err error) string {
	a.logger.Error("error processing query", "err", err)
	return fmt.Sprintf("Error processing query: %v", err)
}
