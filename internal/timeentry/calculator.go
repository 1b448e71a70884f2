package timeentry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/shopspring/decimal"
)

const minutesPerDay = 24 * 60

var sixty = decimal.NewFromInt(60)

// PayInput is a shift as submitted, before any money is derived.
type PayInput struct {
	StartTime            string
	EndTime              string
	HourlyRate           decimal.Decimal
	UnpaidLunchMinutes   int
	LunchDeductionAmount decimal.Decimal
	LoanDeductionAmount  decimal.Decimal
	// IsHoliday is carried through untouched; the rate is chosen by the caller.
	IsHoliday bool
}

type PayResult struct {
	RawMinutes          int             `json:"rawMinutes"`
	NetMinutes          int             `json:"netMinutes"`
	GrossHours          decimal.Decimal `json:"grossHours"`
	NetHours            decimal.Decimal `json:"netHours"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	NetAmountBeforeLoan decimal.Decimal `json:"netAmountBeforeLoan"`
	NetAmountFinal      decimal.Decimal `json:"netAmountFinal"`
}

// Calculate prices a shift. An end time earlier than the start wraps past midnight.
// Unpaid lunch minutes shorten paid time but not gross hours; the lunch deduction
// amount is subtracted once from the net.
func Calculate(in PayInput) (PayResult, error) {
	start, err := ParseClock(in.StartTime)
	if err != nil {
		return PayResult{}, internal.NewValidationFieldError("horaInicio", err.Error(), internal.ErrCodeInvalidTime)
	}
	end, err := ParseClock(in.EndTime)
	if err != nil {
		return PayResult{}, internal.NewValidationFieldError("horaFin", err.Error(), internal.ErrCodeInvalidTime)
	}
	if in.HourlyRate.IsNegative() {
		return PayResult{}, internal.NewValidationFieldError("valorHora", "hourly rate cannot be negative", internal.ErrCodeInvalidRate)
	}
	if in.UnpaidLunchMinutes < 0 {
		return PayResult{}, internal.NewValidationFieldError("minutosAlmuerzoSinPago", "unpaid lunch minutes cannot be negative", internal.ErrCodeInvalidLunch)
	}
	if in.LunchDeductionAmount.IsNegative() {
		return PayResult{}, internal.NewValidationFieldError("descuentoAlmuerzo", "lunch deduction cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if in.LoanDeductionAmount.IsNegative() {
		return PayResult{}, internal.NewValidationFieldError("totalLoanDeducted", "loan deduction cannot be negative", internal.ErrCodeInvalidAmount)
	}

	// Stored amounts are NUMERIC(14,2); price with the values that will be persisted.
	rate := in.HourlyRate.Round(2)
	lunch := in.LunchDeductionAmount.Round(2)
	loan := in.LoanDeductionAmount.Round(2)

	raw := end - start
	if raw < 0 {
		raw += minutesPerDay
	}
	if in.UnpaidLunchMinutes > raw {
		return PayResult{}, internal.NewValidationFieldError("minutosAlmuerzoSinPago",
			fmt.Sprintf("unpaid lunch minutes (%d) exceed the shift length (%d)", in.UnpaidLunchMinutes, raw),
			internal.ErrCodeInvalidLunch)
	}
	net := raw - in.UnpaidLunchMinutes

	grossHours := decimal.NewFromInt(int64(raw)).Div(sixty).Round(2)
	netHours := decimal.NewFromInt(int64(net)).Div(sixty).Round(2)
	subtotal := grossHours.Mul(rate).Round(2)
	beforeLoan := decimal.NewFromInt(int64(net)).Mul(rate).Div(sixty).
		Sub(lunch).Round(2)
	final := beforeLoan.Sub(loan)

	return PayResult{
		RawMinutes:          raw,
		NetMinutes:          net,
		GrossHours:          grossHours,
		NetHours:            netHours,
		Subtotal:            subtotal,
		NetAmountBeforeLoan: beforeLoan,
		NetAmountFinal:      final,
	}, nil
}

// ParseClock converts HH:MM (00:00 to 23:59) into minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || !twoDigits(parts[0]) || !twoDigits(parts[1]) {
		return 0, fmt.Errorf("time %q must use HH:MM format", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q has an invalid minute", s)
	}
	return h*60 + m, nil
}

func twoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}
