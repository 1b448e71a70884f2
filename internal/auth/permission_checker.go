package auth

import "github.com/frahmantamala/courier-payroll/internal"

const (
	PermissionAdmin          = "admin"
	PermissionManageEntries  = "manage_entries"
	PermissionSettlePayments = "settle_payments"
	PermissionManageLoans    = "manage_loans"
	PermissionViewReports    = "view_reports"
)

// AllPermissions is the catalogue seeded into the permissions table.
var AllPermissions = map[string]string{
	PermissionAdmin:          "Full access to every resource",
	PermissionManageEntries:  "Create and edit time entries, employees and clients",
	PermissionSettlePayments: "Run settlements and download receipts",
	PermissionManageLoans:    "Request, approve and reject loans",
	PermissionViewReports:    "Read the ledger and record expenses",
}

type PermissionChecker interface {
	HasAnyPermission(p *internal.Principal, required ...string) bool
}

type DefaultPermissionChecker struct{}

func NewPermissionChecker() PermissionChecker {
	return &DefaultPermissionChecker{}
}

// HasAnyPermission grants admins everything.
func (c *DefaultPermissionChecker) HasAnyPermission(p *internal.Principal, required ...string) bool {
	if p == nil {
		return false
	}
	if p.HasAnyPermission(PermissionAdmin) {
		return true
	}
	return p.HasAnyPermission(required...)
}
