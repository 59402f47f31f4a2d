package api

// Function names the model may select.
const (
	FuncExecuteAWSCLI    = "execute_aws_cli"
	FuncGetAWSCLIExample = "get_aws_cli_example"
)

// ExecuteAWSCLIFunction lets the model run an AWS CLI command.
var ExecuteAWSCLIFunction = FunctionDefinition{
	Name:        FuncExecuteAWSCLI,
	Description: "Execute AWS CLI commands to interact with AWS resources",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"command": map[string]interface{}{
				"type":        "string",
				"description": "The AWS CLI command to execute",
			},
		},
		"required": []string{"command"},
	},
}

// GetAWSCLIExampleFunction lets the model look up example commands from the
// knowledge base.
var GetAWSCLIExampleFunction = FunctionDefinition{
	Name:        FuncGetAWSCLIExample,
	Description: "Retrieve example AWS CLI commands from the knowledge base",
	Parameters: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The query to search for AWS CLI examples",
			},
		},
		"required": []string{"query"},
	},
}

// DefaultFunctions returns the static declarations advertised on every
// first-round completion request.
func DefaultFunctions() []FunctionDefinition {
	return []FunctionDefinition{
		ExecuteAWSCLIFunction,
		GetAWSCLIExampleFunction,
	}
}
