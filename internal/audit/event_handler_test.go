package audit_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/courier-payroll/internal/audit"
	auditPostgres "github.com/frahmantamala/courier-payroll/internal/audit/postgres"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel"
	"github.com/frahmantamala/courier-payroll/internal/core/events"
	"github.com/frahmantamala/courier-payroll/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Audit Event Handler", func() {
	var (
		ctx     context.Context
		repo    audit.RepositoryAPI
		bus     *events.EventBus
		handler *audit.EventHandler
		slogger *slog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(datamodel.AutoMigrate(db)).To(Succeed())

		repo = auditPostgres.NewAuditRepository(db)
		bus = events.NewEventBus(slogger)
		handler = audit.NewEventHandler(repo, slogger)
		handler.RegisterEventHandlers(bus)
	})

	It("should record a settlement event once per event id", func() {
		evt := events.NewSettlementCreatedEvent(11, "employee", 7, "employee", decimal.NewFromInt(65000), 2)

		Expect(bus.PublishSync(ctx, evt)).To(Succeed())
		Expect(bus.PublishSync(ctx, evt)).To(Succeed())

		logs, err := repo.List(ctx, audit.ListFilter{EventType: events.EventTypeSettlementCreated})
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(HaveLen(1))
		Expect(logs[0].EntityKind).To(Equal("employee"))
		Expect(logs[0].EntityID).To(Equal(int64(7)))
		Expect(logs[0].Payload).To(ContainSubstring(`"total_amount":"65000.00"`))
	})

	It("should record a paid off loan against the loan", func() {
		Expect(bus.PublishSync(ctx, events.NewLoanPaidOffEvent(3, 7, 11))).To(Succeed())

		loanID := int64(3)
		logs, err := repo.List(ctx, audit.ListFilter{EntityKind: "loan", EntityID: &loanID})
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(HaveLen(1))
		Expect(logs[0].EventType).To(Equal(events.EventTypeLoanPaidOff))
	})

	It("should reject an event of the wrong type", func() {
		wrong := events.NewLoanPaidOffEvent(3, 7, 11)

		err := handler.HandleSettlementCreated(ctx, wrong)

		Expect(err).To(HaveOccurred())
	})

	It("should eventually record events published asynchronously", func() {
		Expect(bus.Publish(ctx, events.NewLoanPaidOffEvent(4, 8, 12))).To(Succeed())

		drainCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		Expect(bus.Drain(drainCtx)).To(Succeed())

		logs, err := repo.List(ctx, audit.ListFilter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(HaveLen(1))
	})

	It("should list audit logs over HTTP", func() {
		Expect(bus.PublishSync(ctx, events.NewLoanPaidOffEvent(3, 7, 11))).To(Succeed())
		h := audit.NewHandler(transport.NewBaseHandler(slogger), repo)

		rec := httptest.NewRecorder()
		h.ListAuditLogs(rec, httptest.NewRequest(http.MethodGet, "/audit-logs?entity_kind=loan", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body struct {
			Logs []audit.LogResponse `json:"logs"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Logs).To(HaveLen(1))
		Expect(body.Logs[0].EntityID).To(Equal(int64(3)))

		rec = httptest.NewRecorder()
		h.ListAuditLogs(rec, httptest.NewRequest(http.MethodGet, "/audit-logs?limit=0", nil))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
