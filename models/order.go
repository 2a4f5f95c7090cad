package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled}

// progression ranks the forward path; cancelled sits outside it.
var progression = map[OrderStatus]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusReady:     2,
	StatusCompleted: 3,
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Label is the human readable form shown on dashboards.
func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusPreparing:
		return "Preparing"
	case StatusReady:
		return "Ready"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// CanTransitionTo reports whether an order in status s may move to next.
// Staying in the same status is always allowed. Completed and cancelled are final.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return progression[next] > progression[s]
}

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCard PaymentMethod = "card"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

func (p PaymentMethod) Label() string {
	switch p {
	case PaymentCash:
		return "Cash on Pickup"
	case PaymentUPI:
		return "UPI Payment"
	case PaymentCard:
		return "Card Payment"
	}
	return string(p)
}

type Order struct {
	ID                  uint          `gorm:"primaryKey" json:"id"`
	CustomerName        string        `gorm:"type:varchar(100)" json:"customer_name"`
	CustomerPhone       string        `gorm:"type:varchar(15)" json:"customer_phone"`
	CustomerEmail       string        `gorm:"type:varchar(254)" json:"customer_email"`
	RoomNumber          string        `gorm:"type:varchar(50)" json:"room_number"`
	SpecialInstructions string        `gorm:"type:text" json:"special_instructions"`
	PaymentMethod       PaymentMethod `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	Status              OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	TotalPrice          Money         `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`
	Items               []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	CreatedAt           time.Time     `gorm:"not null;index" json:"created_at"`
	UpdatedAt           time.Time     `gorm:"not null" json:"updated_at"`
}

func (o *Order) String() string {
	return fmt.Sprintf("Order #%d - %s", o.ID, o.Status)
}

// ItemsTotal sums the subtotals of the loaded items.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal.Decimal)
	}
	return total
}
