package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/yeremiapane/canteen-pos/middlewares"
	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/services"
	"github.com/yeremiapane/canteen-pos/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type orderItemRequest struct {
	MenuItem uint `json:"menu_item" binding:"required"`
	Quantity *int `json:"quantity" binding:"omitempty,min=1,max=1000"`
}

type orderRequest struct {
	CustomerName        string               `json:"customer_name" binding:"max=100"`
	CustomerPhone       string               `json:"customer_phone" binding:"max=15"`
	CustomerEmail       string               `json:"customer_email" binding:"omitempty,email,max=254"`
	RoomNumber          string               `json:"room_number" binding:"max=50"`
	SpecialInstructions string               `json:"special_instructions"`
	PaymentMethod       models.PaymentMethod `json:"payment_method" binding:"omitempty,oneof=cash upi card"`
	Items               []orderItemRequest   `json:"items" binding:"required,min=1,dive"`
}

type orderUpdateRequest struct {
	CustomerName        *string               `json:"customer_name" binding:"omitempty,max=100"`
	CustomerPhone       *string               `json:"customer_phone" binding:"omitempty,max=15"`
	CustomerEmail       *string               `json:"customer_email" binding:"omitempty,email,max=254"`
	RoomNumber          *string               `json:"room_number" binding:"omitempty,max=50"`
	SpecialInstructions *string               `json:"special_instructions"`
	PaymentMethod       *models.PaymentMethod `json:"payment_method"`
	Status              *models.OrderStatus   `json:"status"`
	Items               json.RawMessage       `json:"items"`
}

var errItemsReadOnly = errors.New("items: order items cannot be changed after the order is placed")

func (r orderUpdateRequest) touchesItems() bool {
	raw := bytes.TrimSpace(r.Items)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// GetAllOrders -> newest first, ?status= narrows the list
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.List(c.Request.Context(), models.OrderStatus(c.Query("status")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder prices the items from the catalog; any client supplied
// status, total or subtotal is ignored.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body orderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, err)
		return
	}

	in := services.CreateOrderInput{
		OrderContact: services.OrderContact{
			CustomerName:        body.CustomerName,
			CustomerPhone:       body.CustomerPhone,
			CustomerEmail:       body.CustomerEmail,
			RoomNumber:          body.RoomNumber,
			SpecialInstructions: body.SpecialInstructions,
		},
		PaymentMethod: body.PaymentMethod,
	}
	for _, item := range body.Items {
		qty := 1
		if item.Quantity != nil {
			qty = *item.Quantity
		}
		in.Items = append(in.Items, services.LineItemInput{MenuItemID: item.MenuItem, Quantity: qty})
	}

	order, err := oc.Orders.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if userID, ok := c.Get(middlewares.CtxUserID); ok {
		utils.InfoLogger.Printf("order #%d placed by user %v", order.ID, userID)
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// ReplaceOrder handles PUT. Contact fields are replaced as a whole; payment
// method and status keep their current value when omitted.
func (oc *OrderController) ReplaceOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body orderUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, err)
		return
	}
	if body.touchesItems() {
		utils.RespondValidation(c, errItemsReadOnly)
		return
	}

	upd, err := services.ReplaceContact(services.OrderContact{
		CustomerName:        deref(body.CustomerName),
		CustomerPhone:       deref(body.CustomerPhone),
		CustomerEmail:       deref(body.CustomerEmail),
		RoomNumber:          deref(body.RoomNumber),
		SpecialInstructions: deref(body.SpecialInstructions),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	upd.PaymentMethod = body.PaymentMethod
	upd.Status = body.Status

	oc.update(c, id, upd)
}

// UpdateOrder handles PATCH, typically a status change from the dashboard.
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body orderUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondValidation(c, err)
		return
	}
	if body.touchesItems() {
		utils.RespondValidation(c, errItemsReadOnly)
		return
	}

	oc.update(c, id, services.OrderUpdate{
		CustomerName:        body.CustomerName,
		CustomerPhone:       body.CustomerPhone,
		CustomerEmail:       body.CustomerEmail,
		RoomNumber:          body.RoomNumber,
		SpecialInstructions: body.SpecialInstructions,
		PaymentMethod:       body.PaymentMethod,
		Status:              body.Status,
	})
}

func (oc *OrderController) update(c *gin.Context, id uint, upd services.OrderUpdate) {
	order, err := oc.Orders.Update(c.Request.Context(), id, upd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// DeleteOrder
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := oc.Orders.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

// OrdersTable renders the order list as an HTML fragment for dashboards
// that poll instead of holding a websocket.
func (oc *OrderController) OrdersTable(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))
	orders, err := oc.Orders.List(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Render(http.StatusOK, render.HTML{
		Template: ordersTable,
		Name:     "orders_table",
		Data: gin.H{
			"Orders":   orders,
			"Filter":   status,
			"Statuses": models.OrderStatuses,
		},
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
