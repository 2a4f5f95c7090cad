package kds

import "github.com/yeremiapane/canteen-pos/models"

// GroupOrders is the topic every order dashboard joins.
const GroupOrders = "orders"

// Event types
const (
	EventNewOrder     = "new_order"
	EventOrderUpdate  = "order_update"
	EventOrderDeleted = "order_deleted"
)

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// NewOrder announces a committed order submission.
func (h *Hub) NewOrder(order models.Order) {
	h.Publish(GroupOrders, Message{Type: EventNewOrder, Data: order})
}

// OrderUpdated announces a committed status or field change.
func (h *Hub) OrderUpdated(order models.Order) {
	h.Publish(GroupOrders, Message{Type: EventOrderUpdate, Data: order})
}

func (h *Hub) OrderDeleted(orderID uint) {
	h.Publish(GroupOrders, Message{Type: EventOrderDeleted, Data: map[string]uint{"id": orderID}})
}
