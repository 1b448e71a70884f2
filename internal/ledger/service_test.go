package ledger_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/ledger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type mockReader struct {
	lines    map[ledger.Source][]ledger.Transaction
	err      error
	blocking bool
	from, to time.Time
}

func (m *mockReader) read(ctx context.Context, source ledger.Source, from, to time.Time) ([]ledger.Transaction, error) {
	m.from, m.to = from, to
	if m.blocking {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.lines[source], nil
}

func (m *mockReader) ClientIncome(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	return m.read(ctx, ledger.SourceClientServices, from, to)
}

func (m *mockReader) EmployeePayroll(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	return m.read(ctx, ledger.SourceEmployeePayroll, from, to)
}

func (m *mockReader) LoanDisbursements(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	return m.read(ctx, ledger.SourceLoan, from, to)
}

func (m *mockReader) Expenses(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	return m.read(ctx, ledger.SourceExpense, from, to)
}

func (m *mockReader) ExtraIncomes(ctx context.Context, from, to time.Time) ([]ledger.Transaction, error) {
	return m.read(ctx, ledger.SourceExtraIncome, from, to)
}

var _ = Describe("Ledger Service", func() {
	var (
		reader  *mockReader
		service *ledger.Service
	)

	BeforeEach(func() {
		reader = &mockReader{lines: map[ledger.Source][]ledger.Transaction{}}
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = ledger.NewService(reader, time.Second, slogger)
	})

	It("should combine every source into one report", func() {
		reader.lines[ledger.SourceClientServices] = []ledger.Transaction{tx(4, "90000", ledger.TypeIncome, ledger.SourceClientServices, "acme")}
		reader.lines[ledger.SourceLoan] = []ledger.Transaction{tx(2, "300000", ledger.TypeExpense, ledger.SourceLoan, "loan")}
		reader.lines[ledger.SourceExtraIncome] = []ledger.Transaction{tx(1, "10000", ledger.TypeIncome, ledger.SourceExtraIncome, "tip")}

		report, err := service.Build(context.Background(), day(1), day(15))

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Transactions).To(HaveLen(3))
		Expect(report.FinalBalance.Equal(dec("-200000"))).To(BeTrue())
		Expect(reader.from).To(Equal(day(1)))
		Expect(reader.to).To(Equal(day(15)))
	})

	It("should fail with a timeout error when the sources take too long", func() {
		reader.blocking = true
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = ledger.NewService(reader, 10*time.Millisecond, slogger)

		_, err := service.Build(context.Background(), day(1), day(15))

		Expect(err).To(MatchError(internal.ErrReportTimeout))
	})

	It("should pass through read failures", func() {
		reader.err = errors.New("connection reset")

		_, err := service.Build(context.Background(), day(1), day(15))

		Expect(err).To(MatchError("connection reset"))
	})
})
