package cli

import (
	"fintrack/internal/aggregate"
	"fintrack/internal/backend"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/insights"
	"fintrack/internal/services"
)

// Services groups the application services built over one backend.
type Services struct {
	Notifier     *services.Notifier
	Dashboard    *services.DashboardService
	Goals        *services.GoalService
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Profiles     *services.ProfileService
	Backups      *services.BackupService
}

// NewServices wires every service to res.Store. Changes are published
// through res.AMQP when it is set.
func NewServices(cfg *config.Config, res *backend.BackendResult) *Services {
	var publisher services.Publisher
	if res.AMQP != nil {
		publisher = res.AMQP
	}
	notifier := services.NewNotifier(publisher)
	normalizer := core.Normalizer{Bound: cfg.AmountBound}
	engine := aggregate.NewEngine(cfg.Location())
	generator := insights.NewGenerator(engine, cfg.InsightWindowDays)

	return &Services{
		Notifier:     notifier,
		Dashboard:    services.NewDashboardService(res.Store, normalizer, generator),
		Goals:        services.NewGoalService(res.Store, notifier, cfg.Currency),
		Transactions: services.NewTransactionService(res.Store, notifier, normalizer),
		Categories:   services.NewCategoryService(res.Store, notifier),
		Profiles:     services.NewProfileService(res.Store, cfg.Currency),
		Backups:      services.NewBackupService(res.Store, notifier, normalizer),
	}
}
