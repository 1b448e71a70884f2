package directory

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                int64           `gorm:"primaryKey"`
	FullName          string          `gorm:"column:full_name;not null"`
	DocumentID        string          `gorm:"column:document_id;uniqueIndex;not null"`
	Phone             string          `gorm:"column:phone"`
	Address           string          `gorm:"column:address"`
	Kind              string          `gorm:"column:kind;size:16;not null;default:courier"`
	ClientID          *int64          `gorm:"column:client_id;index"`
	DefaultHourlyRate decimal.Decimal `gorm:"column:default_hourly_rate;type:numeric(14,2);not null"`
	IsActive          bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

type Client struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	TaxID     string    `gorm:"column:tax_id;uniqueIndex;not null"`
	Phone     string    `gorm:"column:phone"`
	Address   string    `gorm:"column:address"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Client) TableName() string {
	return "clients"
}
