package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

type Settlement struct {
	ID                      int64           `gorm:"primaryKey"`
	EntityKind              string          `gorm:"column:entity_kind;size:16;not null;index:idx_settlements_entity,priority:1"`
	EntityID                int64           `gorm:"column:entity_id;not null;index:idx_settlements_entity,priority:2"`
	Scope                   string          `gorm:"column:scope;size:16;not null"`
	PeriodStart             time.Time       `gorm:"column:period_start;type:date;not null"`
	PeriodEnd               time.Time       `gorm:"column:period_end;type:date;not null"`
	GrossAmount             decimal.Decimal `gorm:"column:gross_amount;type:numeric(14,2);not null"`
	LoanDeduction           decimal.Decimal `gorm:"column:loan_deduction;type:numeric(14,2);not null"`
	SocialSecurityDeduction decimal.Decimal `gorm:"column:social_security_deduction;type:numeric(14,2);not null"`
	TotalAmount             decimal.Decimal `gorm:"column:total_amount;type:numeric(14,2);not null"`
	LoanID                  *int64          `gorm:"column:loan_id"`
	PaymentDate             time.Time       `gorm:"column:payment_date;type:date;not null"`
	IdempotencyKey          *string         `gorm:"column:idempotency_key;size:128;uniqueIndex"`
	CreatedBy               *int64          `gorm:"column:created_by"`
	CreatedAt               time.Time       `gorm:"column:created_at;autoCreateTime"`

	Entries []SettlementEntry `gorm:"foreignKey:SettlementID"`
}

func (Settlement) TableName() string {
	return "settlements"
}

type SettlementEntry struct {
	SettlementID int64 `gorm:"column:settlement_id;primaryKey"`
	TimeEntryID  int64 `gorm:"column:time_entry_id;primaryKey;uniqueIndex"`
}

func (SettlementEntry) TableName() string {
	return "settlement_entries"
}
