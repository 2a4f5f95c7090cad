package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"-"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order *Order `gorm:"foreignKey:OrderID;references:ID" json:"-"`
	// MenuItemID becomes nil once the menu item is removed from the catalog;
	// the name and price snapshots keep the line readable.
	MenuItemID   *uint     `gorm:"index" json:"menu_item"`
	MenuItem     *MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	MenuItemName string    `gorm:"type:varchar(100);not null" json:"menu_item_name"`
	UnitPrice    Money     `gorm:"type:decimal(8,2);not null" json:"unit_price"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
	Subtotal     Money     `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// Price binds the item to a menu entry, snapshotting its name and price
// and recomputing the subtotal. Call before every write.
func (oi *OrderItem) Price(menu MenuItem) {
	id := menu.ID
	oi.MenuItemID = &id
	oi.MenuItemName = menu.Name
	oi.UnitPrice = menu.Price
	oi.Recompute()
}

// Recompute derives the subtotal from the snapshotted unit price.
func (oi *OrderItem) Recompute() {
	oi.Subtotal = NewMoney(oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity))))
}

func (oi *OrderItem) String() string {
	return fmt.Sprintf("%s x %d", oi.MenuItemName, oi.Quantity)
}
