// Package assistant exposes the expense ledger through a conversational
// interface. The model decides which ledger function to call; the results
// come from the same balance engine as the HTTP API.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/spender-app/spender/internal/service"
)

// ErrNotConfigured is returned when no OpenAI API key is set.
var ErrNotConfigured = errors.New("assistant not configured: set OPENAI_API_KEY")

// Assistant answers natural-language questions about the ledger.
type Assistant struct {
	client *openai.Client
	ledger *service.LedgerService
}

// New creates an Assistant. With an empty apiKey the assistant is disabled
// and Chat returns ErrNotConfigured.
func New(apiKey string, ledger *service.LedgerService) *Assistant {
	a := &Assistant{ledger: ledger}
	if apiKey != "" {
		a.client = openai.NewClient(apiKey)
	}
	return a
}

// Enabled reports whether an API key was configured.
func (a *Assistant) Enabled() bool {
	return a.client != nil
}

// Chat processes one user message. If the model requests a ledger function,
// it is executed and a follow-up completion turns the result into a friendly
// reply.
func (a *Assistant) Chat(ctx context.Context, message, userName string) (string, error) {
	if a.client == nil {
		return "", ErrNotConfigured
	}
	if userName == "" {
		userName = "User"
	}

	people, err := a.ledger.ListPeople(ctx)
	if err != nil {
		return "", err
	}
	friends := make([]string, 0, len(people))
	for _, p := range people {
		friends = append(friends, p.Name)
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4TurboPreview,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(userName, friends)},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		Functions:    functionDefinitions(),
		FunctionCall: "auto",
		Temperature:  0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	choice := resp.Choices[0]
	if choice.Message.FunctionCall == nil {
		return choice.Message.Content, nil
	}

	call := choice.Message.FunctionCall
	slog.Info("assistant function call", "function", call.Name, "user", userName)

	result, err := a.executeFunction(ctx, userName, call.Name, []byte(call.Arguments))
	if err != nil {
		return "", err
	}
	return a.generateFollowUp(ctx, call.Name, result, message)
}

// generateFollowUp asks the model to phrase the function result as a reply.
func (a *Assistant) generateFollowUp(ctx context.Context, functionName string, result any, originalMessage string) (string, error) {
	content, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode function result: %w", err)
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4TurboPreview,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful assistant. Generate a friendly response based on the function result. Be concise.",
			},
			{Role: openai.ChatMessageRoleUser, Content: originalMessage},
			{Role: openai.ChatMessageRoleFunction, Name: functionName, Content: string(content)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("follow-up completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("follow-up completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func systemPrompt(userName string, friends []string) string {
	friendList := strings.Join(friends, ", ")
	if friendList == "" {
		friendList = "None yet"
	}
	return fmt.Sprintf(`You are a helpful AI assistant for Spender, an expense tracking app.

Current user: %s
Available friends: %s

Help users:
- Add expenses (e.g., "Add $40 sushi dinner with Sarah")
- Check balances (e.g., "How much does Sarah owe me?")
- List expenses (e.g., "Show recent expenses")
- View all balances (e.g., "Who owes whom?")

When adding expenses:
- If user says "I paid" or "I paid for both", use "%s" as paidBy
- Always include the payer in splitWith array
- Parse amounts from natural language (e.g., "$40" or "forty dollars")

Be friendly, concise, and helpful. Format numbers as currency.`, userName, friendList, userName)
}

// executeFunction runs the ledger operation the model asked for. "user"
// resolves to the current user's name.
func (a *Assistant) executeFunction(ctx context.Context, userName, name string, args json.RawMessage) (any, error) {
	switch name {
	case "add_expense":
		var params struct {
			Description string   `json:"description"`
			Amount      float64  `json:"amount"`
			PaidBy      string   `json:"paidBy"`
			SplitWith   []string `json:"splitWith"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("bad add_expense arguments: %w", err)
		}
		paidBy := resolveUser(params.PaidBy, userName)
		splitWith := make([]string, len(params.SplitWith))
		for i, n := range params.SplitWith {
			splitWith[i] = resolveUser(n, userName)
		}

		expense, err := a.ledger.AddExpenseByNames(ctx, params.Description, params.Amount, paidBy, splitWith)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"success": true,
			"expense": expense,
			"message": fmt.Sprintf("Added $%.2f expense %q", expense.Amount, expense.Description),
		}, nil

	case "get_balance":
		var params struct {
			PersonName string `json:"personName"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("bad get_balance arguments: %w", err)
		}

		user, err := a.ledger.ResolvePerson(ctx, userName)
		if err != nil {
			return nil, err
		}
		person, err := a.ledger.ResolvePerson(ctx, params.PersonName)
		if err != nil {
			return nil, err
		}
		m, err := a.ledger.Balances(ctx)
		if err != nil {
			return nil, err
		}

		userOwes := m[user.ID][person.ID]
		personOwes := m[person.ID][user.ID]
		net := personOwes - userOwes

		var msg string
		switch {
		case net > 0.01:
			msg = fmt.Sprintf("%s owes you $%.2f", person.Name, net)
		case net < -0.01:
			msg = fmt.Sprintf("You owe %s $%.2f", person.Name, -net)
		default:
			msg = fmt.Sprintf("You're all settled up with %s!", person.Name)
		}
		return map[string]any{
			"personName": person.Name,
			"youOwe":     userOwes,
			"theyOwe":    personOwes,
			"netBalance": net,
			"message":    msg,
		}, nil

	case "list_expenses":
		var params struct {
			Limit int `json:"limit"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("bad list_expenses arguments: %w", err)
		}
		if params.Limit <= 0 {
			params.Limit = 5
		}

		expenses, err := a.ledger.RecentExpenses(ctx, params.Limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"expenses": expenses,
			"count":    len(expenses),
		}, nil

	case "get_all_balances":
		edges, err := a.ledger.SimplifiedBalances(ctx)
		if err != nil {
			return nil, err
		}
		summary := make([]string, len(edges))
		for i, e := range edges {
			summary[i] = fmt.Sprintf("%s owes %s $%.2f", e.FromName, e.ToName, e.Amount)
		}
		return map[string]any{
			"balances": edges,
			"summary":  summary,
		}, nil

	default:
		return nil, fmt.Errorf("unknown function %q", name)
	}
}

func resolveUser(name, userName string) string {
	if name == "user" {
		return userName
	}
	return name
}
