package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/courier-payroll/internal/audit"
	"github.com/frahmantamala/courier-payroll/internal/auth"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	"github.com/frahmantamala/courier-payroll/internal/expense"
	"github.com/frahmantamala/courier-payroll/internal/ledger"
	"github.com/frahmantamala/courier-payroll/internal/loan"
	"github.com/frahmantamala/courier-payroll/internal/settlement"
	"github.com/frahmantamala/courier-payroll/internal/timeentry"
	"github.com/frahmantamala/courier-payroll/internal/transport"
	"github.com/frahmantamala/courier-payroll/internal/transport/middleware"
	"github.com/frahmantamala/courier-payroll/internal/transport/swagger"
	"github.com/frahmantamala/courier-payroll/internal/user"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

// Handlers groups the domain handlers mounted under /api/v1. Nil handlers are skipped.
type Handlers struct {
	Auth       *auth.Handler
	RBAC       *auth.RBACAuthorization
	User       *user.Handler
	Directory  *directory.Handler
	TimeEntry  *timeentry.Handler
	Loan       *loan.Handler
	Settlement *settlement.Handler
	Expense    *expense.Handler
	Ledger     *ledger.Handler
	Audit      *audit.Handler
}

type Options struct {
	AllowedOrigins string
	// Spec is served verbatim at /openapi.yml.
	Spec []byte
	// Document enables request validation when set.
	Document *openapi3.T
}

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, h Handlers, opts Options, logger *slog.Logger) error {
	healthHandler := NewHealthHandler(transport.NewBaseHandler(logger), db)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware)
	if opts.Document != nil {
		validator, err := middleware.OpenAPIValidator(opts.Document)
		if err != nil {
			return err
		}
		router.Use(validator)
	}

	if len(opts.Spec) > 0 {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write(opts.Spec)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", h.Auth.Login)
			ar.Post("/refresh", h.Auth.RefreshToken)
			ar.With(h.Auth.AuthMiddleware).Get("/me", h.Auth.Me)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			registerProtected(pr, h)
		})
	})
	return nil
}

func registerProtected(r chi.Router, h Handlers) {
	require := func(perms ...string) func(http.Handler) http.Handler {
		return h.RBAC.Require(perms...)
	}

	if h.User != nil {
		r.Route("/users", func(ur chi.Router) {
			ur.Use(require(auth.PermissionAdmin))
			ur.Post("/", h.User.CreateUser)
			ur.Get("/", h.User.ListUsers)
			ur.Get("/{id}", h.User.GetUser)
		})
	}

	if h.Audit != nil {
		r.With(require(auth.PermissionAdmin)).Get("/audit-logs", h.Audit.ListAuditLogs)
	}

	if h.Directory != nil {
		r.Route("/clients", func(cr chi.Router) {
			cr.With(require(auth.PermissionAdmin)).Post("/", h.Directory.CreateClient)
			cr.Group(func(gr chi.Router) {
				gr.Use(require(auth.PermissionManageEntries))
				gr.Get("/", h.Directory.ListClients)
				gr.Get("/{id}", h.Directory.GetClient)
			})
		})
	}

	if h.Directory != nil || h.Loan != nil {
		r.Route("/employees", func(er chi.Router) {
			if h.Directory != nil {
				er.Group(func(gr chi.Router) {
					gr.Use(require(auth.PermissionManageEntries))
					gr.Post("/", h.Directory.CreateEmployee)
					gr.Get("/", h.Directory.ListEmployees)
					gr.Get("/{id}", h.Directory.GetEmployee)
				})
			}
			if h.Loan != nil {
				er.With(require(auth.PermissionManageLoans)).Get("/{id}/active-loan", h.Loan.GetActiveLoan)
			}
		})
	}

	if h.TimeEntry != nil {
		r.Route("/time-entries", func(tr chi.Router) {
			tr.Use(require(auth.PermissionManageEntries))
			tr.Post("/preview", h.TimeEntry.Preview)
			tr.Post("/", h.TimeEntry.CreateTimeEntry)
			tr.Get("/", h.TimeEntry.ListTimeEntries)
			tr.Get("/{id}", h.TimeEntry.GetTimeEntry)
			tr.Put("/{id}", h.TimeEntry.UpdateTimeEntry)
			tr.Delete("/{id}", h.TimeEntry.DeleteTimeEntry)
		})
	}

	if h.Loan != nil {
		r.Route("/loans", func(lr chi.Router) {
			lr.Use(require(auth.PermissionManageLoans))
			lr.Post("/", h.Loan.RequestLoan)
			lr.Get("/", h.Loan.ListLoans)
			lr.Get("/{id}", h.Loan.GetLoan)
			lr.Patch("/{id}/approve", h.Loan.ApproveLoan)
			lr.Patch("/{id}/reject", h.Loan.RejectLoan)
		})
	}

	if h.Settlement != nil {
		r.Route("/settlements", func(sr chi.Router) {
			sr.Use(require(auth.PermissionSettlePayments))
			sr.Get("/", h.Settlement.ListSettlements)
			sr.Post("/fortnight", h.Settlement.SettleFortnight)
			sr.Post("/employees/{id}", h.Settlement.SettleEmployee)
			sr.Post("/clients/{id}", h.Settlement.SettleClient)
			sr.Get("/{id}", h.Settlement.GetSettlement)
			sr.Get("/{id}/receipt.pdf", h.Settlement.DownloadReceipt)
		})
	}

	r.Group(func(rr chi.Router) {
		rr.Use(require(auth.PermissionViewReports))
		if h.Ledger != nil {
			rr.Get("/ledger", h.Ledger.GetLedger)
			rr.Get("/ledger/export.xlsx", h.Ledger.ExportLedger)
		}
		if h.Expense != nil {
			rr.Post("/expenses", h.Expense.CreateExpense)
			rr.Get("/expenses", h.Expense.ListExpenses)
			rr.Post("/extra-incomes", h.Expense.CreateExtraIncome)
			rr.Get("/extra-incomes", h.Expense.ListExtraIncomes)
		}
	})
}
