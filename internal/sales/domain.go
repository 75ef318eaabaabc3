package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a sale.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// DefaultBuyer is stored when a sale is submitted without a buyer.
const DefaultBuyer = "Não informado"

// Statuses lists every known status in display order.
var Statuses = []Status{StatusPending, StatusDelivered, StatusCancelled}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Sale represents a sales transaction in the ledger.
type Sale struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	Name      string          `json:"name" gorm:"not null"`
	Value     decimal.Decimal `json:"value" gorm:"type:decimal(20,2);not null;default:0"`
	Buyer     string          `json:"buyer"`
	Status    Status          `json:"status" gorm:"size:16;not null;default:pending;index"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewSale is the input accepted by Service.CreateSale.
type NewSale struct {
	Name   string
	Value  *decimal.Decimal
	Buyer  string
	Status Status
}

// SalePatch carries a partial update; nil fields stay unchanged.
type SalePatch struct {
	Name   *string
	Value  *decimal.Decimal
	Buyer  *string
	Status *Status
}

// Op names the store mutation that triggered a hook.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Mutation describes a committed change to the record store.
type Mutation struct {
	Op     Op
	SaleID string
	// Sale is the stored state after the mutation; nil for deletes.
	Sale *Sale
}
