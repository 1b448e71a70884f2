package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/frahmantamala/courier-payroll/internal/audit"
	auditPostgres "github.com/frahmantamala/courier-payroll/internal/audit/postgres"
	"github.com/frahmantamala/courier-payroll/internal/core/events"
	"github.com/frahmantamala/courier-payroll/internal/settlement"
	settlementPostgres "github.com/frahmantamala/courier-payroll/internal/settlement/postgres"
	"github.com/frahmantamala/courier-payroll/pkg/logger"
	"github.com/spf13/cobra"
)

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Run settlements from the command line",
}

var settleFortnightCmd = &cobra.Command{
	Use:   "fortnight",
	Short: "Settle every OPEN entry of the current fortnight",
	Long:  `Settle the current fortnight for every employee in one transaction and print the result as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettleFortnight(cmd.Context())
	},
}

var (
	settleApplyLoan           bool
	settleApplySocialSecurity bool
)

func runSettleFortnight(ctx context.Context) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	db, gormDB, err := initDB(cfg.Database, false)
	if err != nil {
		return err
	}
	defer db.Close()

	bus := events.NewEventBus(lg)
	audit.NewEventHandler(auditPostgres.NewAuditRepository(gormDB), lg).RegisterEventHandlers(bus)
	service := settlement.NewService(settlementPostgres.NewSettlementStore(gormDB), bus, cfg.Payroll, lg)

	result, err := service.SettleFortnight(ctx, settlement.Options{
		ApplyLoan:           settleApplyLoan,
		ApplySocialSecurity: settleApplySocialSecurity,
	})
	if err != nil {
		return err
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := bus.Drain(drainCtx); err != nil {
		lg.Warn("audit handlers did not finish", "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result.ToResponse())
}

func init() {
	settleFortnightCmd.Flags().BoolVar(&settleApplyLoan, "apply-loan", true, "deduct the next installment of each active loan")
	settleFortnightCmd.Flags().BoolVar(&settleApplySocialSecurity, "apply-social-security", false, "deduct the configured social security amount")

	settleCmd.AddCommand(settleFortnightCmd)
}
