package settlement_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	directoryPostgres "github.com/frahmantamala/courier-payroll/internal/directory/postgres"
	"github.com/frahmantamala/courier-payroll/internal/settlement"
	settlementPostgres "github.com/frahmantamala/courier-payroll/internal/settlement/postgres"
	"github.com/frahmantamala/courier-payroll/internal/timeentry"
	timeentryPostgres "github.com/frahmantamala/courier-payroll/internal/timeentry/postgres"
	"github.com/frahmantamala/courier-payroll/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Settlement Handler Integration", func() {
	var (
		ctx     context.Context
		router  *chi.Mux
		courier *directory.Employee
		entries *timeentry.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(datamodel.AutoMigrate(db)).To(Succeed())

		dir := directory.NewService(directoryPostgres.NewDirectoryRepository(db), slogger)
		entries = timeentry.NewService(timeentryPostgres.NewTimeEntryRepository(db), dir, slogger)
		service := settlement.NewService(settlementPostgres.NewSettlementStore(db), nil,
			internal.PayrollConfig{SocialSecurityDeduction: dec("95000")}, slogger).
			WithClock(func() time.Time { return time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC) })
		handler := settlement.NewHandler(transport.NewBaseHandler(slogger), service, dir, "COP")

		router = chi.NewRouter()
		router.Post("/settlements/fortnight", handler.SettleFortnight)
		router.Post("/settlements/employees/{id}", handler.SettleEmployee)
		router.Post("/settlements/clients/{id}", handler.SettleClient)
		router.Get("/settlements", handler.ListSettlements)
		router.Get("/settlements/{id}", handler.GetSettlement)
		router.Get("/settlements/{id}/receipt.pdf", handler.DownloadReceipt)

		courier, err = dir.CreateEmployee(ctx, directory.CreateEmployeeDTO{FullName: "Ana Ruiz", DocumentID: "CC-1", DefaultHourlyRate: dec("10000")})
		Expect(err).NotTo(HaveOccurred())
	})

	logShift := func(date string) {
		_, err := entries.Create(ctx, nil, timeentry.TimeEntryDTO{
			EmployeeID: courier.ID, Date: date, StartTime: "08:00", EndTime: "17:00", UnpaidLunchMinutes: 60,
		})
		Expect(err).NotTo(HaveOccurred())
	}

	settle := func(body string, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/settlements/employees/"+strconv.FormatInt(courier.ID, 10), strings.NewReader(body))
		if key != "" {
			req.Header.Set(settlement.IdempotencyHeader, key)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("settles without a body and reports a no-op the second time", func() {
		logShift("2024-01-05")

		w := settle("", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp settlement.ResultResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Settled).To(BeTrue())
		Expect(resp.Message).To(Equal("settlement completed"))
		Expect(resp.Settlements).To(HaveLen(1))
		Expect(resp.Settlements[0].TotalAmount.Equal(dec("80000"))).To(BeTrue())
		Expect(resp.Settlements[0].PaymentDate).To(Equal("2024-01-20"))

		w = settle("", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Settled).To(BeFalse())
		Expect(resp.Message).To(Equal("no entries pending"))
	})

	It("honours the request flags", func() {
		logShift("2024-01-05")
		logShift("2024-01-06")

		w := settle(`{"applySocialSecurity": true, "from": "2024-01-01", "to": "2024-01-15"}`, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp settlement.ResultResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Settlements[0].SocialSecurityDeduction.Equal(dec("95000"))).To(BeTrue())
		Expect(resp.Settlements[0].TotalAmount.Equal(dec("65000"))).To(BeTrue())
		Expect(resp.Settlements[0].PeriodStart).To(Equal("2024-01-01"))
	})

	It("returns the same settlement for a repeated Idempotency-Key", func() {
		logShift("2024-01-05")

		first := settle("", "abc-123")
		Expect(first.Code).To(Equal(http.StatusOK))
		logShift("2024-01-06")
		second := settle("", "abc-123")
		Expect(second.Code).To(Equal(http.StatusOK))

		var a, b settlement.ResultResponse
		Expect(json.Unmarshal(first.Body.Bytes(), &a)).To(Succeed())
		Expect(json.Unmarshal(second.Body.Bytes(), &b)).To(Succeed())
		Expect(b.Settlements[0].ID).To(Equal(a.Settlements[0].ID))
		Expect(b.Message).To(Equal("settlement already processed"))
	})

	It("rejects an inverted date range", func() {
		w := settle(`{"from": "2024-02-01", "to": "2024-01-01"}`, "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var resp internal.Response
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Error.Code).To(Equal(internal.ErrCodeValidationFailed))
	})

	It("returns 404 for unknown employees and clients", func() {
		req := httptest.NewRequest(http.MethodPost, "/settlements/employees/999", bytes.NewReader(nil))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusNotFound))

		req = httptest.NewRequest(http.MethodPost, "/settlements/clients/999", bytes.NewReader(nil))
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("serves a PDF receipt", func() {
		logShift("2024-01-05")
		w := settle("", "")
		var resp settlement.ResultResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		id := strconv.FormatInt(resp.Settlements[0].ID, 10)

		req := httptest.NewRequest(http.MethodGet, "/settlements/"+id+"/receipt.pdf", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/pdf"))
		Expect(w.Body.String()).To(HavePrefix("%PDF"))

		req = httptest.NewRequest(http.MethodGet, "/settlements?entity_kind=employee", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))
		var list settlement.SettlementsResponse
		Expect(json.Unmarshal(w.Body.Bytes(), &list)).To(Succeed())
		Expect(list.Settlements).To(HaveLen(1))
	})
})
