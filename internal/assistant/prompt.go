// Package assistant builds the finance-aware prompt sent to the language
// model. Sending it is left to the caller.
package assistant

import (
	"errors"
	"strings"
	"text/template"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

// ErrEmptyQuestion is returned when the user asked nothing.
var ErrEmptyQuestion = errors.New("empty question")

// Data is the summary of the user's ledger the assistant may rely on.
type Data struct {
	TotalIncome       float64
	TotalExpenses     float64
	TotalSavings      float64 // saved towards goals
	IncomeSources     []aggregate.CategoryTotal
	ExpenseCategories []aggregate.CategoryTotal
	Goals             []aggregate.GoalSummary
}

// FromInput summarizes normalized collections. Total savings is the amount
// saved towards goals.
func FromInput(in aggregate.Input) Data {
	d := Data{
		TotalIncome:       aggregate.Total(in.Income),
		TotalExpenses:     aggregate.Total(in.Expenses),
		IncomeSources:     aggregate.GroupByCategory(in.Income),
		ExpenseCategories: aggregate.GroupByCategory(in.Expenses),
		Goals:             aggregate.SummarizeGoals(in.Goals),
	}
	for _, g := range in.Goals {
		d.TotalSavings += g.SavedAmount
	}
	d.TotalSavings = core.Finite(d.TotalSavings)
	return d
}

var promptTemplate = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"money":   func(cfg core.DisplayConfig, v float64) string { return signed(cfg, v) },
	"percent": func(p float64) string { return core.FixedString(p*100, 0) + "%" },
}).Parse(`You are the fintrack assistant.
Answer using only the user's financial data below and their question.

USER DATA
- Total Income: {{money .Cfg .Data.TotalIncome}}
- Income Sources:{{range .Data.IncomeSources}}
  - {{.Name}}: {{money $.Cfg .Amount}}{{else}} none{{end}}
- Total Expenses: {{money .Cfg .Data.TotalExpenses}}
- Expense Categories:{{range .Data.ExpenseCategories}}
  - {{.Name}}: {{money $.Cfg .Amount}}{{else}} none{{end}}
- Potential Savings: {{money .Cfg .Balance}}
- Total Savings: {{money .Cfg .Data.TotalSavings}}
- Savings Goals:{{range .Data.Goals}}
  - {{.Goal.Name}}: {{money $.Cfg .Goal.SavedAmount}} of {{money $.Cfg .Goal.TargetAmount}} ({{percent .Progress}}), {{if .Exceeded}}exceeded{{else}}{{money $.Cfg .Remaining}} left{{end}}{{else}} none{{end}}

RULES
1. Always use the real numbers above for financial advice.
2. For spending or budgeting, compare income with expenses and point at the largest categories.
3. For savings, start from potential savings (income minus expenses) and the goals.
4. For goals, give progress, the amount left and a monthly contribution.
5. Never invent numbers.
6. Questions unrelated to finance get a normal answer.
Keep answers short and clear; use bullet points when helpful.

User question: {{.Question}}
`))

// BuildPrompt renders the prompt for question with amounts formatted in
// cfg's currency.
func BuildPrompt(d Data, cfg core.DisplayConfig, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	var b strings.Builder
	err := promptTemplate.Execute(&b, struct {
		Data     Data
		Cfg      core.DisplayConfig
		Balance  float64
		Question string
	}{d, cfg, core.Finite(d.TotalIncome - d.TotalExpenses), question})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func signed(cfg core.DisplayConfig, v float64) string {
	if v < 0 {
		return "-" + cfg.Format(v)
	}
	return cfg.Format(v)
}
