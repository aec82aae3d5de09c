package app

import (
	"context"
	"errors"
	"strconv"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	selfevents "github.com/thewinery/selforder/internal/events"
	"github.com/thewinery/selforder/internal/menu"
	"github.com/thewinery/selforder/internal/mongo"
	"github.com/thewinery/selforder/internal/nav"
	"github.com/thewinery/selforder/internal/ordering"
	"github.com/thewinery/selforder/internal/storage"
)

const (
	AppName    = "selforder"
	AppVersion = "0.1.0"
)

const defaultStatePath = "selforder-state.json"

// App encapsulates the self-order service application.
type App struct {
	config   *apt.Config
	logger   apt.Logger
	micro    *apt.Micro
	baseRepo *mongo.BaseRepo
}

// New creates a new self-order service application.
func New(config *apt.Config, logger apt.Logger) (*App, error) {
	return &App{
		config: config,
		logger: logger,
	}, nil
}

// Initialize sets up all dependencies and components.
func (a *App) Initialize(ctx context.Context) error {
	a.baseRepo = mongo.NewBaseRepo(a.config, a.logger)
	if err := a.baseRepo.Start(ctx); err != nil {
		return err
	}

	db := a.baseRepo.GetDatabase()
	if db == nil {
		return errors.New("repository database is nil")
	}

	// Apply demo seeds if enabled
	if err := menu.ApplySeeds(ctx, a.config, a.baseRepo.GetDatabase, a.logger); err != nil {
		a.logger.Errorf("Demo seeding failed (non-fatal): %v", err)
	}

	menuRepo := mongo.NewMenuRepo(db)
	catalog := menu.NewCatalog(menuRepo, a.logger)

	natsURL := a.config.GetStringOrDef("nats.url", "nats://localhost:4222")

	publisher, err := selfevents.NewNATSPublisher(natsURL)
	if err != nil {
		return err
	}
	subscriber, err := selfevents.NewNATSSubscriber(natsURL, a.logger)
	if err != nil {
		return err
	}

	menuSub := menu.NewUpdateSubscriber(subscriber, catalog, a.logger)

	statePath := a.config.GetStringOrDef("storage.path", defaultStatePath)
	store := storage.NewFileStore(statePath, a.logger)

	sessionMinutes := configMinutes(a.config, "tapas.duration.minutes", ordering.DefaultSessionMinutes)
	sessions := ordering.NewSessionManager(store, publisher, sessionMinutes, a.logger)

	cart := ordering.NewCart(store, sessions, a.logger)

	estimatedMinutes := configMinutes(a.config, "orders.estimated.minutes", ordering.DefaultEstimatedMinutes)
	ledger := ordering.NewLedger(store, estimatedMinutes, a.logger)

	staffCode, _ := a.config.GetString("checkout.staff.code")
	checkout := ordering.NewCheckout(cart, ledger, staffCode, publisher, a.logger)

	navigator := nav.NewNavigator("", nil, a.logger)

	handler := ordering.NewHandler(ordering.HandlerDeps{
		Catalog:   catalog,
		Cart:      cart,
		Sessions:  sessions,
		Ledger:    ledger,
		Checkout:  checkout,
		Navigator: navigator,
	}, a.config, a.logger)

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger: a.logger,
		// Tablets call this API straight from the browser shell.
		DisableCORS: false,
	})

	restoreLifecycle := apt.LifecycleHooks{
		OnStart: func(ctx context.Context) error {
			// Device state survives restarts; an expired session stays gone.
			_ = cart.Restore()
			_ = ledger.Restore()
			_ = sessions.Restore()
			return nil
		},
	}

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error { return publisher.Close() },
	}
	subscriberLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error { return subscriber.Close() },
	}
	sessionLifecycle := apt.LifecycleHooks{
		OnStop: sessions.Stop,
	}

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: a.baseRepo.Stop},
		menuSub,
		restoreLifecycle,
		sessionLifecycle,
		publisherLifecycle,
		subscriberLifecycle,
	}

	options := []apt.Option{
		apt.WithConfig(a.config),
		apt.WithLogger(a.logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(AppName),
	}

	a.micro = apt.NewMicro(options...)
	return nil
}

// Run starts the application.
func (a *App) Run(ctx context.Context) error {
	a.logger.Infof("Starting %s(%s)", AppName, AppVersion)
	if err := a.micro.Run(ctx); err != nil {
		return err
	}
	a.logger.Infof("%s(%s) stopped", AppName, AppVersion)
	return nil
}

func configMinutes(config *apt.Config, key string, def int) int {
	raw, _ := config.GetString(key)
	if raw == "" {
		return def
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return def
	}
	return minutes
}

// Shutdown releases resources not owned by the micro lifecycle.
func (a *App) Shutdown(ctx context.Context) error {
	if a.baseRepo != nil {
		return a.baseRepo.Stop(ctx)
	}
	return nil
}
