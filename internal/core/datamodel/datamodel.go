// Package datamodel holds the gorm row structs shared by the repositories.
package datamodel

import (
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel/audit"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel/directory"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel/expense"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel/loan"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel/settlement"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel/timeentry"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel/user"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&directory.Client{},
		&directory.Employee{},
		&user.User{},
		&user.Permission{},
		&user.UserPermission{},
		&timeentry.TimeEntry{},
		&loan.Loan{},
		&loan.LoanRepayment{},
		&settlement.Settlement{},
		&settlement.SettlementEntry{},
		&expense.Expense{},
		&expense.ExtraIncome{},
		&audit.AuditLog{},
	}
}

// AutoMigrate creates the schema through gorm. Production schemas come from the goose
// migrations; this is used by the sqlite-backed tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
