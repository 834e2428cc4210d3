// Package insights turns a trailing window of a user's ledger into a short
// list of natural-language observations.
package insights

import (
	"context"
	"log/slog"
	"time"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
)

const (
	// DefaultWindowDays is the length of the trailing analysis window.
	DefaultWindowDays = 30
	// MinInsights is the floor reached by padding.
	MinInsights = 3
	// MaxInsights caps the returned list.
	MaxInsights = 5
)

// Window is the slice of data the rules look at: transactions stamped within
// the last Days days plus every savings goal.
type Window struct {
	Days     int
	Income   []core.Transaction
	Expenses []core.Transaction
	Savings  []core.Transaction
	Goals    []core.SavingsGoal

	TotalIncome       float64
	TotalExpenses     float64
	TotalSavings      float64
	ExpenseCategories []aggregate.CategoryTotal
	ExpenseWeeks      []aggregate.CategoryWeeks
}

// PerDay is the average number of records per day over the window.
func (w Window) PerDay() float64 {
	if w.Days <= 0 {
		return 0
	}
	return float64(len(w.Income)+len(w.Expenses)+len(w.Savings)) / float64(w.Days)
}

func (w Window) activeGoals() int {
	n := 0
	for _, g := range w.Goals {
		if g.Status.IsActive() {
			n++
		}
	}
	return n
}

func (w Window) completedGoals() int {
	n := 0
	for _, g := range w.Goals {
		if g.Status.IsAchieved() {
			n++
		}
	}
	return n
}

// Fallback is returned whenever the data behind the insights cannot be
// loaded.
func Fallback() []string {
	return []string{
		"Unable to generate insights at this time. Please check your data and try again. 🤔",
		"Make sure you're logged in and have some financial data to analyze. 📱",
		"Regular tracking helps generate better financial insights! 💪",
	}
}

// Loader fetches the complete input for one refresh.
type Loader func(ctx context.Context) (aggregate.Input, error)

// Generator evaluates the rule battery over a trailing window.
type Generator struct {
	Engine *aggregate.Engine
	Days   int
	Rules  []Rule
	Now    func() time.Time
}

// NewGenerator returns a generator using the default rules over a window of
// days (DefaultWindowDays when non-positive).
func NewGenerator(engine *aggregate.Engine, days int) *Generator {
	if engine == nil {
		engine = aggregate.NewEngine(nil)
	}
	if days <= 0 {
		days = DefaultWindowDays
	}
	return &Generator{Engine: engine, Days: days, Rules: DefaultRules, Now: time.Now}
}

func (g *Generator) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// Window restricts in to the trailing window ending now.
func (g *Generator) Window(in aggregate.Input) Window {
	from := g.now().AddDate(0, 0, -g.Days)
	w := Window{
		Days:     g.Days,
		Income:   aggregate.Since(in.Income, from),
		Expenses: aggregate.Since(in.Expenses, from),
		Savings:  aggregate.Since(in.Savings, from),
		Goals:    in.Goals,
	}
	w.TotalIncome = aggregate.Total(w.Income)
	w.TotalExpenses = aggregate.Total(w.Expenses)
	w.TotalSavings = aggregate.Total(w.Savings)
	w.ExpenseCategories = aggregate.GroupByCategory(w.Expenses)
	w.ExpenseWeeks = g.Engine.WeeklyByCategory(w.Expenses)
	return w
}

// Generate evaluates every rule in order and returns between MinInsights
// and MaxInsights messages.
func (g *Generator) Generate(in aggregate.Input) []string {
	return g.Evaluate(g.Window(in))
}

// Evaluate applies the rules to an already built window.
func (g *Generator) Evaluate(w Window) []string {
	rules := g.Rules
	if len(rules) == 0 {
		rules = DefaultRules
	}
	out := make([]string, 0, MaxInsights)
	for _, rule := range rules {
		if msg, ok := rule(w); ok {
			out = append(out, msg)
		}
	}
	for len(out) < MinInsights {
		out = append(out, Filler(w))
	}
	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

// GenerateFrom loads the input and generates insights. A load failure is
// logged and answered with Fallback instead of an error.
func (g *Generator) GenerateFrom(ctx context.Context, load Loader) []string {
	in, err := load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Insight generation fell back", "error", err)
		return Fallback()
	}
	return g.Generate(in)
}
