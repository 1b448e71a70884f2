package timeentry_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	directoryPostgres "github.com/frahmantamala/courier-payroll/internal/directory/postgres"
	"github.com/frahmantamala/courier-payroll/internal/timeentry"
	timeentryPostgres "github.com/frahmantamala/courier-payroll/internal/timeentry/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	Expect(err).NotTo(HaveOccurred())
	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)
	Expect(datamodel.AutoMigrate(db)).To(Succeed())
	return db
}

var _ = Describe("TimeEntry Service", func() {
	var (
		ctx      context.Context
		db       *gorm.DB
		dir      *directory.Service
		service  *timeentry.Service
		courier  *directory.Employee
		staff    *directory.Employee
		acme     *directory.Client
		admin    *internal.Principal
		acmeUser *internal.Principal
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		db = openTestDB()

		dir = directory.NewService(directoryPostgres.NewDirectoryRepository(db), slogger)
		service = timeentry.NewService(timeentryPostgres.NewTimeEntryRepository(db), dir, slogger)

		var err error
		acme, err = dir.CreateClient(ctx, directory.CreateClientDTO{Name: "Acme", TaxID: "900"})
		Expect(err).NotTo(HaveOccurred())
		courier, err = dir.CreateEmployee(ctx, directory.CreateEmployeeDTO{FullName: "Ana", DocumentID: "1", DefaultHourlyRate: dec("10000")})
		Expect(err).NotTo(HaveOccurred())
		staff, err = dir.CreateEmployee(ctx, directory.CreateEmployeeDTO{
			FullName: "Beto", DocumentID: "2", Kind: directory.KindClientStaff, ClientID: &acme.ID, DefaultHourlyRate: dec("8000"),
		})
		Expect(err).NotTo(HaveOccurred())

		admin = &internal.Principal{UserID: 1, Permissions: []string{"admin"}}
		acmeUser = &internal.Principal{UserID: 2, ClientID: &acme.ID, Permissions: []string{"manage_entries"}}
	})

	shift := func(employeeID int64, date, start, end string) timeentry.TimeEntryDTO {
		return timeentry.TimeEntryDTO{EmployeeID: employeeID, Date: date, StartTime: start, EndTime: end, UnpaidLunchMinutes: 60}
	}

	Describe("Create", func() {
		It("stores the computed amounts using the employee's default rate", func() {
			entry, err := service.Create(ctx, admin, shift(courier.ID, "2024-01-05", "08:00", "17:00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.ID).To(BeNumerically(">", 0))
			Expect(entry.Status).To(Equal(timeentry.StatusOpen))
			Expect(entry.HourlyRate.Equal(dec("10000"))).To(BeTrue())
			Expect(entry.NetAmountFinal.Equal(dec("80000"))).To(BeTrue())
			Expect(entry.WorkDate).To(Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)))
			Expect(*entry.CreatedBy).To(Equal(admin.UserID))
		})

		It("uses the submitted rate when present", func() {
			dto := shift(courier.ID, "2024-01-05", "08:00", "12:00")
			rate := dec("15000")
			dto.HourlyRate = &rate
			dto.UnpaidLunchMinutes = 0
			entry, err := service.Create(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.NetAmountFinal.Equal(dec("60000"))).To(BeTrue())
		})

		It("stores a sub-cent rate so that subtotal equals grossHours times the stored rate", func() {
			dto := shift(courier.ID, "2024-01-05", "08:00", "17:00")
			rate := dec("10000.005")
			dto.HourlyRate = &rate
			dto.UnpaidLunchMinutes = 0
			created, err := service.Create(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())

			stored, err := service.Get(ctx, admin, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.HourlyRate.Equal(dec("10000.01"))).To(BeTrue())
			Expect(stored.Subtotal.Equal(stored.GrossHours.Mul(stored.HourlyRate))).To(BeTrue())
		})

		It("defaults the company of client staff to their employer", func() {
			entry, err := service.Create(ctx, admin, shift(staff.ID, "2024-01-05", "08:00", "17:00"))
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.ClientID).NotTo(BeNil())
			Expect(*entry.ClientID).To(Equal(acme.ID))
		})

		It("rejects a duplicate shift with a conflict", func() {
			_, err := service.Create(ctx, admin, shift(courier.ID, "2024-01-05", "08:00", "17:00"))
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, admin, shift(courier.ID, "2024-01-05", "08:00", "18:00"))
			Expect(err).To(MatchError(internal.ErrDuplicateTimeEntry))
		})

		It("returns not found for an unknown employee", func() {
			_, err := service.Create(ctx, admin, shift(999, "2024-01-05", "08:00", "17:00"))
			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})

		It("rejects malformed dates", func() {
			_, err := service.Create(ctx, admin, shift(courier.ID, "05/01/2024", "08:00", "17:00"))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("forbids client users from logging shifts for other staff", func() {
			_, err := service.Create(ctx, acmeUser, shift(courier.ID, "2024-01-05", "08:00", "17:00"))
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))

			_, err = service.Create(ctx, acmeUser, shift(staff.ID, "2024-01-05", "08:00", "17:00"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns not found for an unknown client", func() {
			dto := shift(courier.ID, "2024-01-05", "08:00", "17:00")
			missing := int64(9999)
			dto.ClientID = &missing
			_, err := service.Create(ctx, admin, dto)
			Expect(err).To(MatchError(internal.ErrClientNotFound))
		})

		It("accepts a known client chosen by staff users", func() {
			dto := shift(courier.ID, "2024-01-05", "08:00", "17:00")
			dto.ClientID = &acme.ID
			entry, err := service.Create(ctx, admin, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(*entry.ClientID).To(Equal(acme.ID))
		})

		It("forbids client users from tagging shifts with another client", func() {
			globex, err := dir.CreateClient(ctx, directory.CreateClientDTO{Name: "Globex", TaxID: "901"})
			Expect(err).NotTo(HaveOccurred())

			dto := shift(staff.ID, "2024-01-05", "08:00", "17:00")
			dto.ClientID = &globex.ID
			_, err = service.Create(ctx, acmeUser, dto)
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))

			missing := int64(9999)
			dto.ClientID = &missing
			_, err = service.Create(ctx, acmeUser, dto)
			Expect(err).To(MatchError(internal.ErrUnauthorizedAccess))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			for _, d := range []string{"2024-01-20", "2024-01-05", "2024-02-01"} {
				_, err := service.Create(ctx, admin, shift(courier.ID, d, "08:00", "17:00"))
				Expect(err).NotTo(HaveOccurred())
			}
			_, err := service.Create(ctx, admin, shift(staff.ID, "2024-01-06", "08:00", "17:00"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("filters by date range and orders by date", func() {
			from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
			entries, err := service.List(ctx, admin, timeentry.ListFilter{EmployeeID: &courier.ID, From: &from, To: &to})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].WorkDate.Day()).To(Equal(5))
			Expect(entries[1].WorkDate.Day()).To(Equal(20))
		})

		It("limits client users to their staff", func() {
			entries, err := service.List(ctx, acmeUser, timeentry.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].EmployeeID).To(Equal(staff.ID))
		})
	})

	Describe("Update and Delete", func() {
		var entry *timeentry.TimeEntry

		BeforeEach(func() {
			var err error
			entry, err = service.Create(ctx, admin, shift(courier.ID, "2024-01-05", "08:00", "17:00"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("reprices an open entry", func() {
			dto := shift(courier.ID, "2024-01-05", "08:00", "13:00")
			dto.UnpaidLunchMinutes = 0
			updated, err := service.Update(ctx, admin, entry.ID, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.NetAmountFinal.Equal(dec("50000"))).To(BeTrue())

			reloaded, err := service.Get(ctx, admin, entry.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.EndTime).To(Equal("13:00"))
			Expect(reloaded.NetAmountFinal.Equal(dec("50000"))).To(BeTrue())
		})

		It("refuses to touch paid entries", func() {
			Expect(db.Table("time_entries").Where("id = ?", entry.ID).
				Updates(map[string]interface{}{"status": "PAID", "is_locked": true}).Error).To(Succeed())

			_, err := service.Update(ctx, admin, entry.ID, shift(courier.ID, "2024-01-05", "08:00", "13:00"))
			Expect(err).To(MatchError(internal.ErrTimeEntryLocked))
			Expect(service.Delete(ctx, admin, entry.ID)).To(MatchError(internal.ErrTimeEntryLocked))
		})

		It("deletes an open entry", func() {
			Expect(service.Delete(ctx, admin, entry.ID)).To(Succeed())
			_, err := service.Get(ctx, admin, entry.ID)
			Expect(err).To(MatchError(internal.ErrTimeEntryNotFound))
		})
	})

	Describe("Preview", func() {
		It("prices a shift without storing it", func() {
			res, err := service.Preview(ctx, admin, timeentry.PreviewDTO{EmployeeID: courier.ID, StartTime: "08:00", EndTime: "17:00", UnpaidLunchMinutes: 60})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.NetAmountFinal.Equal(dec("80000"))).To(BeTrue())

			entries, err := service.List(ctx, admin, timeentry.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})
})
