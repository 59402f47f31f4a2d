package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vidhant007/cora/internal/api"
	"github.com/Vidhant007/cora/internal/executor"
	"github.com/Vidhant007/cora/internal/knowledge"
	"github.com/Vidhant007/cora/internal/logger"
)

// fakeClient replays scripted replies and records every request it sees.
type fakeClient struct {
	messages  [][]api.Message
	functions [][]api.FunctionDefinition
	replies   []*api.Reply
	errs      []error
}

func (f *fakeClient) Complete(_ context.Context, messages []api.Message, functions []api.FunctionDefinition) (*api.Reply, error) {
	i := len(f.messages)
	msgs := make([]api.Message, len(messages))
	copy(msgs, messages)
	f.messages = append(f.messages, msgs)
	f.functions = append(f.functions, functions)

	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i >= len(f.replies) {
		return nil, errors.New("fake client: no scripted reply left")
	}
	return f.replies[i], nil
}

func testKnowledge() *knowledge.Base {
	return knowledge.New(
		knowledge.Entry{
			Topic:    "list ec2 instances",
			Examples: []string{"aws ec2 describe-instances"},
		},
		knowledge.Entry{
			Topic:    "create s3 bucket",
			Examples: []string{"aws s3 mb s3://bucket-name"},
		},
	)
}

func newTestAssistant(t *testing.T, client CompletionClient, opts ...func(*Options)) *Assistant {
	t.Helper()
	o := Options{
		Client:    client,
		Knowledge: testKnowledge(),
		Executor:  executor.New(logger.Discard()),
		Logger:    logger.Discard(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	a, err := New(o)
	require.NoError(t, err)
	return a
}

func TestNewRequiresClientAndExecutor(t *testing.T) {
	_, err := New(Options{Executor: executor.New(logger.Discard())})
	assert.Error(t, err)

	_, err = New(Options{Client: &fakeClient{}})
	assert.Error(t, err)
}

func TestResolveDirectAnswer(t *testing.T) {
	client := &fakeClient{
		replies: []*api.Reply{{Content: "EC2 is a compute service."}},
	}
	a := newTestAssistant(t, client)

	got := a.Resolve(context.Background(), "what is ec2?")

	assert.Equal(t, "EC2 is a compute service.", got)
	require.Len(t, client.messages, 1, "no second round on the direct path")

	// First round carries exactly the two static declarations.
	require.Len(t, client.functions[0], 2)
	assert.Equal(t, api.FuncExecuteAWSCLI, client.functions[0][0].Name)
	assert.Equal(t, api.FuncGetAWSCLIExample, client.functions[0][1].Name)
}

func TestResolveDirectAnswerPropagatesEmptyContent(t *testing.T) {
	client := &fakeClient{replies: []*api.Reply{{Content: ""}}}
	a := newTestAssistant(t, client)

	assert.Equal(t, "", a.Resolve(context.Background(), "anything"))
}

func TestResolveEmbedsRetrievedExamples(t *testing.T) {
	client := &fakeClient{replies: []*api.Reply{{Content: "ok"}}}
	a := newTestAssistant(t, client)

	a.Resolve(context.Background(), "List all running EC2 instances in mumbai")

	require.Len(t, client.messages, 1)
	msgs := client.messages[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, api.RoleSystem, msgs[0].Role)
	assert.Equal(t, api.RoleUser, msgs[1].Role)
	assert.Contains(t, msgs[1].Content, "List all running EC2 instances in mumbai")
	assert.Contains(t, msgs[1].Content, "aws ec2 describe-instances")
	assert.NotContains(t, msgs[1].Content, "aws s3 mb")
}

func TestResolveNoExamplesSentinel(t *testing.T) {
	client := &fakeClient{replies: []*api.Reply{{Content: "ok"}}}
	a := newTestAssistant(t, client)

	a.Resolve(context.Background(), "restart the database")

	assert.Contains(t, client.messages[0][1].Content, knowledge.NoExamplesFound)
}

func TestResolveToolAssistedAnswer(t *testing.T) {
	call := &api.FunctionCall{
		Name:      api.FuncExecuteAWSCLI,
		Arguments: `{"command": "printf instance-list"}`,
	}
	client := &fakeClient{
		replies: []*api.Reply{
			{FunctionCall: call},
			{Content: "Here are your instances."},
		},
	}
	a := newTestAssistant(t, client)

	got := a.Resolve(context.Background(), "list instances")

	assert.Equal(t, "Here are your instances.", got)
	require.Len(t, client.messages, 2)

	// Second round: history extended with the call record and its result,
	// and no function declarations.
	second := client.messages[1]
	require.Len(t, second, 4)
	assert.Equal(t, api.RoleAssistant, second[2].Role)
	require.NotNil(t, second[2].FunctionCall)
	assert.Equal(t, api.FuncExecuteAWSCLI, second[2].FunctionCall.Name)
	assert.Equal(t, api.RoleFunction, second[3].Role)
	assert.Equal(t, api.FuncExecuteAWSCLI, second[3].Name)
	assert.Equal(t, "instance-list", second[3].Content)
	assert.Empty(t, client.functions[1])
}

func TestResolveLookupFunctionWiredToRetriever(t *testing.T) {
	call := &api.FunctionCall{
		Name:      api.FuncGetAWSCLIExample,
		Arguments: `{"query": "create a bucket"}`,
	}
	client := &fakeClient{
		replies: []*api.Reply{
			{FunctionCall: call},
			{Content: "Use aws s3 mb."},
		},
	}
	a := newTestAssistant(t, client)

	got := a.Resolve(context.Background(), "how do I make a bucket?")

	assert.Equal(t, "Use aws s3 mb.", got)
	require.Len(t, client.messages, 2)
	assert.Contains(t, client.messages[1][3].Content, "aws s3 mb s3://bucket-name")
}

func TestResolveMalformedArguments(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"unparseable json", `{"command": `},
		{"missing required field", `{"other": "x"}`},
		{"blank command", `{"command": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{
				replies: []*api.Reply{
					{FunctionCall: &api.FunctionCall{Name: api.FuncExecuteAWSCLI, Arguments: tt.args}},
				},
			}
			a := newTestAssistant(t, client)

			got := a.Resolve(context.Background(), "list instances")

			assert.Contains(t, got, "Error processing query:")
			assert.Contains(t, got, "malformed arguments")
			assert.Len(t, client.messages, 1, "malformed payload is fatal, no second round")
		})
	}
}

func TestResolveUnknownFunction(t *testing.T) {
	client := &fakeClient{
		replies: []*api.Reply{
			{FunctionCall: &api.FunctionCall{Name: "delete_everything", Arguments: `{}`}},
		},
	}
	a := newTestAssistant(t, client)

	got := a.Resolve(context.Background(), "list instances")
	assert.Contains(t, got, "Error processing query:")
}

func TestResolveContainsRemoteFailures(t *testing.T) {
	t.Run("first round fails", func(t *testing.T) {
		client := &fakeClient{errs: []error{errors.New("connection refused")}}
		a := newTestAssistant(t, client)

		got := a.Resolve(context.Background(), "list instances")
		assert.Contains(t, got, "Error processing query:")
		assert.Contains(t, got, "connection refused")
	})

	t.Run("second round fails", func(t *testing.T) {
		client := &fakeClient{
			replies: []*api.Reply{
				{FunctionCall: &api.FunctionCall{Name: api.FuncExecuteAWSCLI, Arguments: `{"command": "printf hi"}`}},
				nil,
			},
			errs: []error{nil, errors.New("gateway timeout")},
		}
		a := newTestAssistant(t, client)

		got := a.Resolve(context.Background(), "list instances")
		assert.Contains(t, got, "Error processing query:")
		assert.Contains(t, got, "gateway timeout")
	})
}

func TestResolveFailedCommandFeedsErrorText(t *testing.T) {
	client := &fakeClient{
		replies: []*api.Reply{
			{FunctionCall: &api.FunctionCall{Name: api.FuncExecuteAWSCLI, Arguments: `{"command": "echo boom >&2; exit 1"}`}},
			{Content: "The command failed."},
		},
	}
	a := newTestAssistant(t, client)

	got := a.Resolve(context.Background(), "list instances")

	assert.Equal(t, "The command failed.", got)
	result := client.messages[1][3].Content
	assert.Contains(t, result, executor.ErrorPrefix)
	assert.Contains(t, result, "boom")
}

func TestResolvePolicyBlocksCommand(t *testing.T) {
	client := &fakeClient{
		replies: []*api.Reply{
			{FunctionCall: &api.FunctionCall{Name: api.FuncExecuteAWSCLI, Arguments: `{"command": "aws ec2 terminate-instances --instance-ids i-1"}`}},
			{Content: "That command is blocked."},
		},
	}
	a := newTestAssistant(t, client, func(o *Options) {
		o.Policy = executor.NewGuardedPolicy()
	})

	got := a.Resolve(context.Background(), "terminate my instances")

	assert.Equal(t, "That command is blocked.", got)
	assert.Contains(t, client.messages[1][3].Content, "Command blocked:")
}

func TestResolveConfirmationDenied(t *testing.T) {
	client := &fakeClient{
		replies: []*api.Reply{
			{FunctionCall: &api.FunctionCall{Name: api.FuncExecuteAWSCLI, Arguments: `{"command": "aws s3 mb s3://bucket-name"}`}},
			{Content: "Understood, not creating the bucket."},
		},
	}
	a := newTestAssistant(t, client, func(o *Options) {
		o.Policy = executor.NewGuardedPolicy()
		o.Confirm = func(string) (bool, bool) { return false, false }
	})

	got := a.Resolve(context.Background(), "create a bucket")

	assert.Equal(t, "Understood, not creating the bucket.", got)
	assert.Equal(t, "Command execution denied by user", client.messages[1][3].Content)
}

func TestResolveConfirmationAlwaysRemembered(t *testing.T) {
	policy := executor.NewGuardedPolicy()
	confirms := 0
	client := &fakeClient{
		replies: []*api.Reply{
			{FunctionCall: &api.FunctionCall{Name: api.FuncExecuteAWSCLI, Arguments: `{"command": "printf made"}`}},
			{Content: "done"},
			{FunctionCall: &api.FunctionCall{Name: api.FuncExecuteAWSCLI, Arguments: `{"command": "printf made"}`}},
			{Content: "done again"},
		},
	}
	a := newTestAssistant(t, client, func(o *Options) {
		o.Policy = policy
		o.Confirm = func(string) (bool, bool) {
			confirms++
			return true, true
		}
	})

	a.Resolve(context.Background(), "make it")
	a.Resolve(context.Background(), "make it")

	assert.Equal(t, 1, confirms, "always-approval should stick for the session")
}
