package api

// Message roles for the chat completions API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleFunction  = "function"
)

// Message is one turn in a conversation. Content is empty when the turn
// carries a function invocation instead of text.
type Message struct {
	Role         string
	Content      string
	Name         string
	FunctionCall *FunctionCall
}

// FunctionCall records a function the model selected, with its argument
// payload as the raw JSON string the model produced.
type FunctionCall struct {
	Name      string
	Arguments string
}

// FunctionDefinition declares a callable the model may select: a name, a
// human-readable description, and a JSON-schema parameter object.
type FunctionDefinition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// Reply is the model's answer to one completion request: either free text
// or exactly one selected function.
type Reply struct {
	Content      string
	FunctionCall *FunctionCall
}
