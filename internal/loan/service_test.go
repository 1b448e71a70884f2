package loan_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	directoryPostgres "github.com/frahmantamala/courier-payroll/internal/directory/postgres"
	"github.com/frahmantamala/courier-payroll/internal/loan"
	loanPostgres "github.com/frahmantamala/courier-payroll/internal/loan/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Loan Service", func() {
	var (
		ctx      context.Context
		repo     *loanPostgres.LoanRepository
		service  *loan.Service
		employee *directory.Employee
		today    = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
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
		employee, err = dir.CreateEmployee(ctx, directory.CreateEmployeeDTO{FullName: "Ana", DocumentID: "1"})
		Expect(err).NotTo(HaveOccurred())

		repo = loanPostgres.NewLoanRepository(db)
		service = loan.NewService(repo, dir, slogger).WithClock(func() time.Time { return today })
	})

	request := func(amount string) *loan.Loan {
		l, err := service.RequestLoan(ctx, loan.RequestLoanDTO{EmployeeID: employee.ID, PrincipalAmount: dec(amount), InstallmentCount: 3})
		Expect(err).NotTo(HaveOccurred())
		return l
	}

	It("creates pending loans with the balance equal to the principal", func() {
		l := request("300000")
		Expect(l.Status).To(Equal(loan.StatusPending))
		Expect(l.OutstandingBalance.Equal(dec("300000"))).To(BeTrue())
		Expect(l.Version).To(Equal(int64(1)))
	})

	It("validates the request", func() {
		_, err := service.RequestLoan(ctx, loan.RequestLoanDTO{EmployeeID: employee.ID, PrincipalAmount: dec("0"), InstallmentCount: 0})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Details.(internal.ValidationErrors).Errors).To(HaveLen(2))
	})

	It("rejects loans for unknown employees", func() {
		_, err := service.RequestLoan(ctx, loan.RequestLoanDTO{EmployeeID: 404, PrincipalAmount: dec("1000"), InstallmentCount: 1})
		Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
	})

	It("approves a pending loan and stamps the disbursement date", func() {
		l := request("300000")
		approved, err := service.ApproveLoan(ctx, l.ID, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(approved.Status).To(Equal(loan.StatusApproved))
		Expect(*approved.ApprovedAt).To(Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)))

		active, err := service.GetActiveLoan(ctx, employee.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(active.ID).To(Equal(l.ID))
		Expect(active.Version).To(Equal(int64(2)))
	})

	It("refuses a second approved loan for the same employee", func() {
		first := request("300000")
		second := request("100000")
		_, err := service.ApproveLoan(ctx, first.ID, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = service.ApproveLoan(ctx, second.ID, nil)
		Expect(err).To(MatchError(internal.ErrActiveLoanExists))

		reloaded, err := service.GetLoan(ctx, second.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.Status).To(Equal(loan.StatusPending))
	})

	It("only reviews pending loans", func() {
		l := request("300000")
		_, err := service.RejectLoan(ctx, l.ID, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = service.ApproveLoan(ctx, l.ID, nil)
		Expect(err).To(MatchError(internal.ErrInvalidLoanStatus))
	})

	It("reports a missing active loan as not found", func() {
		_, err := service.RequireActiveLoan(ctx, employee.ID)
		Expect(err).To(MatchError(internal.ErrLoanNotFound))

		l, err := service.GetActiveLoan(ctx, employee.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(l).To(BeNil())
	})

	It("persists repayments with an optimistic version check", func() {
		l := request("300000")
		approved, err := service.ApproveLoan(ctx, l.ID, nil)
		Expect(err).NotTo(HaveOccurred())

		version := approved.Version
		repayment, _ := approved.ApplyRepayment(loan.ComputeInstallment(approved), nil, today)
		Expect(repo.SaveRepayment(ctx, loan.ToDataModel(approved), loan.RepaymentToDataModel(approved.ID, repayment), version)).To(Succeed())

		stale := loan.RepaymentToDataModel(approved.ID, repayment)
		err = repo.SaveRepayment(ctx, loan.ToDataModel(approved), stale, version)
		Expect(err).To(MatchError(internal.ErrLoanVersionChanged))

		reloaded, err := service.GetLoan(ctx, l.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(reloaded.OutstandingBalance.Equal(dec("200000"))).To(BeTrue())
		Expect(reloaded.Repayments).To(HaveLen(1))
		Expect(reloaded.Repayments[0].Amount.Equal(dec("100000"))).To(BeTrue())
	})

	It("lists loans filtered by status", func() {
		request("1000")
		l := request("2000")
		_, err := service.ApproveLoan(ctx, l.ID, nil)
		Expect(err).NotTo(HaveOccurred())

		loans, err := service.ListLoans(ctx, loan.ListFilter{Status: loan.StatusApproved})
		Expect(err).NotTo(HaveOccurred())
		Expect(loans).To(HaveLen(1))
		Expect(loans[0].ID).To(Equal(l.ID))
	})
})
