package services

import (
	"context"
	"errors"

	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderEvents receives order lifecycle notifications after commit.
type OrderEvents interface {
	NewOrder(order models.Order)
	OrderUpdated(order models.Order)
	OrderDeleted(orderID uint)
}

type OrderService struct {
	DB     *gorm.DB
	Events OrderEvents
}

func NewOrderService(db *gorm.DB, events OrderEvents) *OrderService {
	return &OrderService{DB: db, Events: events}
}

// ----- DTOs from Controller -----

type LineItemInput struct {
	MenuItemID uint
	Quantity   int
}

type OrderContact struct {
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       string
	RoomNumber          string
	SpecialInstructions string
}

type CreateOrderInput struct {
	OrderContact
	PaymentMethod models.PaymentMethod
	Items         []LineItemInput
}

// OrderUpdate applies only the non-nil fields.
type OrderUpdate struct {
	CustomerName        *string
	CustomerPhone       *string
	CustomerEmail       *string
	RoomNumber          *string
	SpecialInstructions *string
	PaymentMethod       *models.PaymentMethod
	Status              *models.OrderStatus
}

// ReplaceContact builds an update that overwrites every contact field,
// clearing the ones left empty in c.
func ReplaceContact(c OrderContact) (OrderUpdate, error) {
	var upd OrderUpdate
	if err := copier.Copy(&upd, &c); err != nil {
		return OrderUpdate{}, err
	}
	return upd, nil
}

// ----- Create -----

// MaxLineQuantity caps a single order line.
const MaxLineQuantity = 1000

// maxOrderAmount is the first value a decimal(10,2) column cannot hold.
var maxOrderAmount = decimal.NewFromInt(100000000)

// Create persists an order and its items in one transaction. The total is
// the sum of price x quantity for every line, priced from the catalog.
// The new_order event is published exactly when the transaction commits.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, validationf("an order needs at least one item")
	}
	for i, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, validationf("items[%d].quantity must be a positive integer", i)
		}
		if line.Quantity > MaxLineQuantity {
			return nil, validationf("items[%d].quantity must be at most %d", i, MaxLineQuantity)
		}
	}

	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentCash
	}
	if !method.Valid() {
		return nil, validationf("%q is not a valid payment method", method)
	}

	order := models.Order{
		CustomerName:        in.CustomerName,
		CustomerPhone:       in.CustomerPhone,
		CustomerEmail:       in.CustomerEmail,
		RoomNumber:          in.RoomNumber,
		SpecialInstructions: in.SpecialInstructions,
		PaymentMethod:       method,
		Status:              models.StatusPending,
	}

	var created *models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Items {
			var menu models.MenuItem
			if err := tx.First(&menu, line.MenuItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFoundf("menu item %d does not exist", line.MenuItemID)
				}
				return err
			}
			if !menu.Available {
				return validationf("%s is not available right now", menu.Name)
			}

			item := models.OrderItem{OrderID: order.ID, Quantity: line.Quantity}
			item.Price(menu)
			total = total.Add(item.Subtotal.Decimal)
			if item.Subtotal.GreaterThanOrEqual(maxOrderAmount) || total.GreaterThanOrEqual(maxOrderAmount) {
				return validationf("order total must be less than %s", maxOrderAmount.String())
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&order).Update("total_price", models.NewMoney(total)).Error; err != nil {
			return err
		}

		// read back before commit so nothing after commit can fail
		loaded, err := loadOrder(tx, order.ID)
		if err != nil {
			return err
		}
		created = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("order #%d created: %d items, total %s", created.ID, len(created.Items), created.TotalPrice.StringFixed(2))
	if s.Events != nil {
		s.Events.NewOrder(*created)
	}
	return created, nil
}

// ----- List & Detail -----

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	return loadOrder(s.DB.WithContext(ctx), id)
}

// loadOrder reads the aggregate with its items in insertion order.
func loadOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundf("order %d does not exist", id)
		}
		return nil, err
	}
	return &order, nil
}

// List returns orders newest first, optionally only those in status.
func (s *OrderService) List(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	q := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("created_at DESC").
		Order("id DESC")

	if status != "" {
		if !status.Valid() {
			return nil, validationf("%q is not a valid status", status)
		}
		q = q.Where("status = ?", status)
	}

	orders := []models.Order{}
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ----- Update -----

// Update applies upd to an order. Status changes must follow the lifecycle:
// forward only, cancellation from any non-final status. order_update is
// published exactly when the transaction commits.
func (s *OrderService) Update(ctx context.Context, id uint, upd OrderUpdate) (*models.Order, error) {
	if upd.PaymentMethod != nil && !upd.PaymentMethod.Valid() {
		return nil, validationf("%q is not a valid payment method", *upd.PaymentMethod)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, validationf("%q is not a valid status", *upd.Status)
	}

	var (
		previous models.OrderStatus
		updated  *models.Order
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		// sqlite ignores the row lock; its single writer already serialises this
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("order %d does not exist", id)
			}
			return err
		}
		previous = order.Status

		if upd.Status != nil {
			if !order.Status.CanTransitionTo(*upd.Status) {
				return validationf("cannot change order status from %s to %s", order.Status, *upd.Status)
			}
			order.Status = *upd.Status
		}
		if upd.PaymentMethod != nil {
			order.PaymentMethod = *upd.PaymentMethod
		}
		applyString(&order.CustomerName, upd.CustomerName)
		applyString(&order.CustomerPhone, upd.CustomerPhone)
		applyString(&order.CustomerEmail, upd.CustomerEmail)
		applyString(&order.RoomNumber, upd.RoomNumber)
		applyString(&order.SpecialInstructions, upd.SpecialInstructions)

		if err := tx.Omit(clause.Associations).Save(&order).Error; err != nil {
			return err
		}

		loaded, err := loadOrder(tx, order.ID)
		if err != nil {
			return err
		}
		updated = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	if previous != updated.Status {
		utils.InfoLogger.Printf("order #%d status %s -> %s", updated.ID, previous, updated.Status)
	}
	if s.Events != nil {
		s.Events.OrderUpdated(*updated)
	}
	return updated, nil
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// ----- Delete -----

// Delete removes the order together with its items.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("order %d does not exist", id)
			}
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if err != nil {
		return err
	}

	utils.InfoLogger.Printf("order #%d deleted", id)
	if s.Events != nil {
		s.Events.OrderDeleted(id)
	}
	return nil
}
