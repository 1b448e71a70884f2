package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/courier-payroll/api"
	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/audit"
	auditPostgres "github.com/frahmantamala/courier-payroll/internal/audit/postgres"
	"github.com/frahmantamala/courier-payroll/internal/auth"
	authPostgres "github.com/frahmantamala/courier-payroll/internal/auth/postgres"
	"github.com/frahmantamala/courier-payroll/internal/core/events"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	directoryPostgres "github.com/frahmantamala/courier-payroll/internal/directory/postgres"
	"github.com/frahmantamala/courier-payroll/internal/expense"
	expensePostgres "github.com/frahmantamala/courier-payroll/internal/expense/postgres"
	"github.com/frahmantamala/courier-payroll/internal/ledger"
	ledgerPostgres "github.com/frahmantamala/courier-payroll/internal/ledger/postgres"
	"github.com/frahmantamala/courier-payroll/internal/loan"
	loanPostgres "github.com/frahmantamala/courier-payroll/internal/loan/postgres"
	"github.com/frahmantamala/courier-payroll/internal/settlement"
	settlementPostgres "github.com/frahmantamala/courier-payroll/internal/settlement/postgres"
	"github.com/frahmantamala/courier-payroll/internal/timeentry"
	timeentryPostgres "github.com/frahmantamala/courier-payroll/internal/timeentry/postgres"
	"github.com/frahmantamala/courier-payroll/internal/transport"
	"github.com/frahmantamala/courier-payroll/internal/transport/rest"
	"github.com/frahmantamala/courier-payroll/internal/user"
	userPostgres "github.com/frahmantamala/courier-payroll/internal/user/postgres"
	"github.com/frahmantamala/courier-payroll/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	EventBus *events.EventBus
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("failed to register routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.EventBus.Drain(ctx); err != nil {
			deps.Logger.Warn("event handlers still running at shutdown", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)

	directoryService := directory.NewService(directoryPostgres.NewDirectoryRepository(deps.Gorm), lg)

	authService := auth.NewService(
		authPostgres.NewRepository(deps.Gorm),
		auth.NewJWTTokenGenerator(cfg.Security),
		cfg.Security.AccessTokenDuration,
		lg,
	)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), directoryService, cfg.Security.BCryptCost, lg)
	timeEntryService := timeentry.NewService(timeentryPostgres.NewTimeEntryRepository(deps.Gorm), directoryService, lg)
	loanService := loan.NewService(loanPostgres.NewLoanRepository(deps.Gorm), directoryService, lg)
	settlementService := settlement.NewService(settlementPostgres.NewSettlementStore(deps.Gorm), deps.EventBus, cfg.Payroll, lg)
	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(deps.Gorm), lg)
	ledgerService := ledger.NewService(ledgerPostgres.NewReader(deps.DB), cfg.Payroll.ReportTimeout, lg)

	auditRepo := auditPostgres.NewAuditRepository(deps.Gorm)
	audit.NewEventHandler(auditRepo, lg).RegisterEventHandlers(deps.EventBus)

	opts := rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Spec:           api.Spec,
	}
	if cfg.Server.ValidateRequests {
		doc, err := api.Load(context.Background())
		if err != nil {
			return err
		}
		opts.Document = doc
	}

	return rest.RegisterAllRoutes(deps.Router, deps.DB, rest.Handlers{
		Auth:       auth.NewHandler(base, authService),
		RBAC:       auth.NewRBACAuthorization(auth.NewPermissionChecker(), base),
		User:       user.NewHandler(base, userService),
		Directory:  directory.NewHandler(base, directoryService),
		TimeEntry:  timeentry.NewHandler(base, timeEntryService),
		Loan:       loan.NewHandler(base, loanService),
		Settlement: settlement.NewHandler(base, settlementService, directoryService, cfg.Payroll.Currency),
		Expense:    expense.NewHandler(base, expenseService),
		Ledger:     ledger.NewHandler(base, ledgerService),
		Audit:      audit.NewHandler(base, auditRepo),
	}, opts, lg)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	// the embedded document is checked even when request validation is off
	if _, err := api.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid api document: %w", err)
	}

	db, gormDB, err := initDB(config.Database, config.Observability.Logging.Level == "debug")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gormDB,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
		Logger:   lg,
	}, nil
}
