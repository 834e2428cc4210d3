package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/ledger"
)

// DashboardService runs the refresh pipeline: fetch every collection,
// normalize, then aggregate or generate insights.
type DashboardService struct {
	reader     ledger.Reader
	normalizer core.Normalizer
	engine     *aggregate.Engine
	generator  *insights.Generator
	now        func() time.Time
}

func NewDashboardService(reader ledger.Reader, normalizer core.Normalizer, generator *insights.Generator) *DashboardService {
	if generator == nil {
		generator = insights.NewGenerator(nil, 0)
	}
	return &DashboardService{
		reader:     reader,
		normalizer: normalizer,
		engine:     generator.Engine,
		generator:  generator,
		now:        time.Now,
	}
}

// Engine returns the aggregation engine shared with the insight generator.
func (s *DashboardService) Engine() *aggregate.Engine {
	return s.engine
}

// Load fetches the four collections concurrently and normalizes them. Any
// failed fetch fails the whole load; partial input is never aggregated.
func (s *DashboardService) Load(ctx context.Context, userID string) (aggregate.Input, error) {
	var in aggregate.Input
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		txs, err := s.reader.FetchIncome(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch income: %w", err)
		}
		in.Income = txs
		return nil
	})
	g.Go(func() error {
		txs, err := s.reader.FetchExpenses(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch expenses: %w", err)
		}
		in.Expenses = txs
		return nil
	})
	g.Go(func() error {
		txs, err := s.reader.FetchSavings(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch savings: %w", err)
		}
		in.Savings = txs
		return nil
	})
	g.Go(func() error {
		goals, err := s.reader.FetchSavingsGoals(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch savings goals: %w", err)
		}
		in.Goals = goals
		return nil
	})

	if err := g.Wait(); err != nil {
		return aggregate.Input{}, err
	}

	in.Income = s.normalizer.NormalizeTransactions(in.Income)
	in.Expenses = s.normalizer.NormalizeTransactions(in.Expenses)
	in.Savings = s.normalizer.NormalizeTransactions(in.Savings)
	in.Goals = s.normalizer.NormalizeGoals(in.Goals)
	return in, nil
}

func (s *DashboardService) Snapshot(ctx context.Context, userID string) (aggregate.Snapshot, error) {
	in, err := s.Load(ctx, userID)
	if err != nil {
		return aggregate.Snapshot{}, err
	}
	return s.engine.Snapshot(in), nil
}

func (s *DashboardService) Dashboard(ctx context.Context, userID string) (aggregate.Dashboard, error) {
	in, err := s.Load(ctx, userID)
	if err != nil {
		return aggregate.Dashboard{}, err
	}
	return s.engine.Dashboard(in), nil
}

// WeeklyIncome returns the income of the current month split into the four
// day-of-month buckets.
func (s *DashboardService) WeeklyIncome(ctx context.Context, userID string) ([4]float64, error) {
	income, err := s.reader.FetchIncome(ctx, userID)
	if err != nil {
		return [4]float64{}, fmt.Errorf("fetch income: %w", err)
	}
	return s.engine.WeeklyIncome(s.normalizer.NormalizeTransactions(income), s.now()), nil
}

// Goals returns every goal with its progress figures.
func (s *DashboardService) Goals(ctx context.Context, userID string) ([]aggregate.GoalSummary, error) {
	goals, err := s.reader.FetchSavingsGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch savings goals: %w", err)
	}
	return aggregate.SummarizeGoals(s.normalizer.NormalizeGoals(goals)), nil
}

// Insights never fails: a load error yields the fallback messages.
func (s *DashboardService) Insights(ctx context.Context, userID string) []string {
	return s.generator.GenerateFrom(ctx, func(ctx context.Context) (aggregate.Input, error) {
		return s.Load(ctx, userID)
	})
}

// RefreshInsights is Insights for callers that must not persist the
// fallback, such as the refresh worker.
func (s *DashboardService) RefreshInsights(ctx context.Context, userID string) ([]string, error) {
	in, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.generator.Generate(in), nil
}
