package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"budgeteer/internal/metrics"
)

// chatPreamble frames free-form questions the way the dashboard's chat
// window does: finance help only, clarify when unclear.
const chatPreamble = `You are a helpful financial assistant. The user asked: %q.
Please provide a detailed, accurate, and helpful response about personal finance.
If the question is unclear, ask for clarification.
If it's not related to finance, politely redirect to financial topics.`

// explainRules are the fixed context lines for metric explanations. They
// mirror what the dashboard tells the model about score semantics so the
// generated paragraph matches what the user sees.
var explainRules = []string{
	"You are an assistant that helps with budgeting. Your goal is to provide helpful, clear explanations.",
	"Limit your response to a short paragraph using only the information provided.",
	"Be direct with your response, don't say things like 'Based on x' or 'According to'.",
	"Act as if everyone knows what the value is, don't say 'It looks like' or 'I'm reporting a value of x'.",
	"If the value explained has a negative association, explain how I might be able to improve the score.",
	"The lowest Budgeteer Score is 300 and the highest Budgeteer Score is 850.",
	"A negative net earnings correlates to a lower Budgeteer Score",
	"More categories over budget correlates to a lower Budgeteer Score",
	"Regarding budgets and spending, a negative spend means the user spent that amount. If the absolute value of the amount spent is less than the budget, the user is not overbudget. If the absolute value of the amount spent is greater than the budget, the user is overbudget.",
}

// BuildChatPrompt wraps one free-form user message.
func BuildChatPrompt(message string) string {
	return fmt.Sprintf(chatPreamble, message)
}

// BuildExplainPrompt asks for a paragraph explaining one dashboard metric,
// handing the full derived summary over as serialized context.
func BuildExplainPrompt(topic string, summary metrics.Summary) string {
	data, err := json.Marshal(summary)
	if err != nil {
		// Summary is plain data; marshalling cannot realistically fail,
		// but an empty context beats a dropped request.
		data = []byte("{}")
	}

	lines := append([]string(nil), explainRules...)
	lines = append(lines,
		fmt.Sprintf("Explain the reasoning behind my score for %s given the following data: %s.", topic, data),
		"If the category to explain is affected by any transactions or budgets, enlighten the user to the data.",
	)
	return strings.Join(lines, "\n")
}

// BuildSuggestionPrompt asks for a one-sentence budget recommendation for
// one over-budget category.
func BuildSuggestionPrompt(category string, budgeted, spent string) string {
	return strings.Join([]string{
		"You are an assistant that helps with budgeting.",
		"In one sentence, suggest a realistic monthly budget adjustment.",
		fmt.Sprintf("The category %q has a budget of %s and the user spent %s this period.", category, budgeted, spent),
	}, "\n")
}
