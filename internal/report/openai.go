package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"financebot/internal/core"
)

const promptTemplate = `Com base nas seguintes transações financeiras do período de %s:
%s
Por favor, gere um relatório financeiro que inclua:
1. Um resumo geral da saúde financeira (saldo, principais gastos, principais receitas). O saldo é calculado como (total de entradas - total de saídas).
2. Uma análise detalhada por categoria de despesa, destacando os maiores gastos. Investimentos (saídas na categoria "investimentos") não são gastos.
3. Dicas e sugestões personalizadas para melhorar a gestão financeira, como áreas para economizar ou oportunidades de investimento (se aplicável).
4. Uma projeção simples ou observações sobre tendências, se os dados permitirem.
Seja claro, conciso e forneça insights acionáveis.`

// ChatClient is the part of the OpenAI client the generator needs.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAI struct {
	client ChatClient
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return NewOpenAIWithClient(openai.NewClient(apiKey), model)
}

func NewOpenAIWithClient(client ChatClient, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{client: client, model: model}
}

// Prompt is exported for logging and tests.
func Prompt(txs []core.Transaction, label string) string {
	return fmt.Sprintf(promptTemplate, label, FormatLines(txs))
}

func (g *OpenAI) Generate(ctx context.Context, txs []core.Transaction, label string) (string, error) {
	if len(txs) == 0 {
		return "", ErrNoTransactions
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(txs, label)},
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "Report generation failed", "model", g.model, "error", err)
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("create chat completion: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
