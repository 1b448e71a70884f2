package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/courier-payroll/internal"
)

// SourceReader loads one kind of ledger line for an inclusive date range.
type SourceReader interface {
	ClientIncome(ctx context.Context, from, to time.Time) ([]Transaction, error)
	EmployeePayroll(ctx context.Context, from, to time.Time) ([]Transaction, error)
	LoanDisbursements(ctx context.Context, from, to time.Time) ([]Transaction, error)
	Expenses(ctx context.Context, from, to time.Time) ([]Transaction, error)
	ExtraIncomes(ctx context.Context, from, to time.Time) ([]Transaction, error)
}

type Service struct {
	reader  SourceReader
	timeout time.Duration
	logger  *slog.Logger
}

func NewService(reader SourceReader, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		reader:  reader,
		timeout: timeout,
		logger:  logger,
	}
}

// Build reads every source and aggregates them. The whole report shares one
// deadline; exceeding it fails with ErrReportTimeout.
func (s *Service) Build(ctx context.Context, from, to time.Time) (*Report, error) {
	ctx, cancel := internal.WithTimeout(ctx, s.timeout)
	defer cancel()

	readers := []struct {
		name string
		read func(context.Context, time.Time, time.Time) ([]Transaction, error)
	}{
		{"client_income", s.reader.ClientIncome},
		{"employee_payroll", s.reader.EmployeePayroll},
		{"loans", s.reader.LoanDisbursements},
		{"expenses", s.reader.Expenses},
		{"extra_incomes", s.reader.ExtraIncomes},
	}

	sources := make([][]Transaction, 0, len(readers))
	for _, r := range readers {
		lines, err := r.read(ctx, from, to)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				s.logger.Warn("ledger report timed out", "source", r.name, "timeout", s.timeout.String())
				return nil, internal.ErrReportTimeout.WithCause(err)
			}
			s.logger.Error("failed to read ledger source", "source", r.name, "error", err)
			return nil, err
		}
		sources = append(sources, lines)
	}

	report := Aggregate(from, to, sources...)
	s.logger.Info("ledger report built",
		"from", from.Format(dateLayout),
		"to", to.Format(dateLayout),
		"transactions", len(report.Transactions),
		"final_balance", report.FinalBalance.String())
	return report, nil
}
