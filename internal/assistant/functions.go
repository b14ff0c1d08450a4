package assistant

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// functionDefinitions lists the ledger operations the model may call.
func functionDefinitions() []openai.FunctionDefinition {
	return []openai.FunctionDefinition{
		{
			Name:        "add_expense",
			Description: "Add a new expense to track. Use this when user wants to add, create, or log an expense.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"description": {
						Type:        jsonschema.String,
						Description: "What the expense was for (e.g., 'sushi dinner', 'coffee', 'groceries')",
					},
					"amount": {
						Type:        jsonschema.Number,
						Description: "The total amount in dollars",
					},
					"paidBy": {
						Type:        jsonschema.String,
						Description: "Who paid for the expense (use their name or 'user' for the current user)",
					},
					"splitWith": {
						Type:        jsonschema.Array,
						Items:       &jsonschema.Definition{Type: jsonschema.String},
						Description: "Names of people to split with (must include the payer)",
					},
				},
				Required: []string{"description", "amount", "paidBy", "splitWith"},
			},
		},
		{
			Name:        "get_balance",
			Description: "Get the balance between the current user and another person. Shows who owes whom.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"personName": {
						Type:        jsonschema.String,
						Description: "The name of the person to check balance with",
					},
				},
				Required: []string{"personName"},
			},
		},
		{
			Name:        "list_expenses",
			Description: "List recent expenses",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"limit": {
						Type:        jsonschema.Number,
						Description: "Number of expenses to show (default 5)",
					},
				},
			},
		},
		{
			Name:        "get_all_balances",
			Description: "Get all outstanding balances showing who owes whom",
			Parameters: jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: map[string]jsonschema.Definition{},
			},
		},
	}
}
