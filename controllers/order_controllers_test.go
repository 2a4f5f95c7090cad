package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/canteen-pos/models"
)

func TestCreateOrderComputesTotalServerSide(t *testing.T) {
	app := newTestApp(t)
	tea := app.menuItem("Tea", "10.00")

	w, env := app.request(http.MethodPost, "/api/orders", "", map[string]interface{}{
		"customer_name": "Asha",
		"status":        "completed",
		"total_price":   "999.00",
		"items": []map[string]interface{}{
			{"menu_item": tea.ID, "quantity": 3, "subtotal": "1.00"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, env.Status)

	order := decodeOrder(t, env.Data)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "cash", order.PaymentMethod)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(30)), order.TotalPrice.String())
	assert.Contains(t, string(env.Data), `"total_price":"30.00"`)
	assert.Contains(t, string(env.Data), `"unit_price":"10.00"`)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Tea", order.Items[0].MenuItemName)
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromInt(30)))
	require.NotNil(t, order.Items[0].MenuItem)
	assert.Equal(t, tea.ID, *order.Items[0].MenuItem)
}

func TestCreateOrderDefaultsQuantityToOne(t *testing.T) {
	app := newTestApp(t)
	samosa := app.menuItem("Samosa", "15.50")

	order := app.placeOrder(map[string]interface{}{"menu_item": samosa.ID})

	require.Len(t, order.Items, 1)
	assert.Equal(t, 1, order.Items[0].Quantity)
	assert.True(t, order.TotalPrice.Equal(decimal.RequireFromString("15.5")))
}

func TestCreateOrderRejectsBadRequests(t *testing.T) {
	app := newTestApp(t)
	tea := app.menuItem("Tea", "10.00")

	cases := []struct {
		name  string
		body  map[string]interface{}
		code  int
		field string
	}{
		{"no items", map[string]interface{}{"items": []interface{}{}}, http.StatusBadRequest, "items"},
		{"missing items", map[string]interface{}{"customer_name": "x"}, http.StatusBadRequest, "items"},
		{"zero quantity", map[string]interface{}{"items": []map[string]interface{}{{"menu_item": tea.ID, "quantity": 0}}}, http.StatusBadRequest, ""},
		{"negative quantity", map[string]interface{}{"items": []map[string]interface{}{{"menu_item": tea.ID, "quantity": -1}}}, http.StatusBadRequest, "items[0].quantity"},
		{"huge quantity", map[string]interface{}{"items": []map[string]interface{}{{"menu_item": tea.ID, "quantity": 5000}}}, http.StatusBadRequest, "items[0].quantity"},
		{"bad payment", map[string]interface{}{"payment_method": "bitcoin", "items": []map[string]interface{}{{"menu_item": tea.ID}}}, http.StatusBadRequest, "payment_method"},
		{"bad email", map[string]interface{}{"customer_email": "nope", "items": []map[string]interface{}{{"menu_item": tea.ID}}}, http.StatusBadRequest, "customer_email"},
		{"unknown item", map[string]interface{}{"items": []map[string]interface{}{{"menu_item": 9999, "quantity": 1}}}, http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := app.request(http.MethodPost, "/api/orders", "", tc.body)
			assert.Equal(t, tc.code, w.Code, w.Body.String())
			assert.False(t, env.Status)
			if tc.field != "" {
				assert.Contains(t, env.Errors, tc.field)
			}
		})
	}

	var count int64
	app.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestListOrdersByStatus(t *testing.T) {
	app := newTestApp(t)
	staff := app.staffToken()
	tea := app.menuItem("Tea", "10.00")

	first := app.placeOrder(map[string]interface{}{"menu_item": tea.ID})
	second := app.placeOrder(map[string]interface{}{"menu_item": tea.ID})
	third := app.placeOrder(map[string]interface{}{"menu_item": tea.ID})

	for _, id := range []uint{first.ID, third.ID} {
		w, _ := app.request(http.MethodPatch, fmt.Sprintf("/api/orders/%d", id), staff, map[string]string{"status": "ready"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w, env := app.request(http.MethodGet, "/api/orders?status=ready", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ready []orderJSON
	require.NoError(t, json.Unmarshal(env.Data, &ready))
	require.Len(t, ready, 2)
	assert.Equal(t, third.ID, ready[0].ID)
	assert.Equal(t, first.ID, ready[1].ID)

	w, env = app.request(http.MethodGet, "/api/orders", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []orderJSON
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all, 3)
	assert.Equal(t, second.ID, all[1].ID)

	w, env = app.request(http.MethodGet, "/api/orders?status=cancelled", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	w, _ = app.request(http.MethodGet, "/api/orders?status=eaten", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderWritesRequireStaff(t *testing.T) {
	app := newTestApp(t)
	_, student := app.user("2021cs1234@canteen.test", models.RoleStudent)
	tea := app.menuItem("Tea", "10.00")
	order := app.placeOrder(map[string]interface{}{"menu_item": tea.ID})
	path := fmt.Sprintf("/api/orders/%d", order.ID)

	w, _ := app.request(http.MethodPatch, path, "", map[string]string{"status": "preparing"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = app.request(http.MethodPatch, path, student, map[string]string{"status": "preparing"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = app.request(http.MethodDelete, path, student, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateOrderStatus(t *testing.T) {
	app := newTestApp(t)
	staff := app.staffToken()
	tea := app.menuItem("Tea", "10.00")
	order := app.placeOrder(map[string]interface{}{"menu_item": tea.ID, "quantity": 2})
	path := fmt.Sprintf("/api/orders/%d", order.ID)

	w, env := app.request(http.MethodPatch, path, staff, map[string]string{"status": "preparing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeOrder(t, env.Data)
	assert.Equal(t, "preparing", updated.Status)
	assert.True(t, updated.TotalPrice.Equal(decimal.NewFromInt(20)))

	w, _ = app.request(http.MethodPatch, path, staff, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.request(http.MethodPatch, path, staff, map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = app.request(http.MethodPatch, path, staff, map[string]interface{}{
		"items": []map[string]interface{}{{"menu_item": tea.ID, "quantity": 50}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = app.request(http.MethodPut, path, staff, map[string]string{"customer_name": "Ravi", "status": "ready"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ready", decodeOrder(t, env.Data).Status)

	w, _ = app.request(http.MethodPatch, "/api/orders/999", staff, map[string]string{"status": "ready"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = app.request(http.MethodPatch, "/api/orders/abc", staff, map[string]string{"status": "ready"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteOrder(t *testing.T) {
	app := newTestApp(t)
	staff := app.staffToken()
	tea := app.menuItem("Tea", "10.00")
	order := app.placeOrder(map[string]interface{}{"menu_item": tea.ID})
	path := fmt.Sprintf("/api/orders/%d", order.ID)

	w, _ := app.request(http.MethodDelete, path, staff, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.request(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var items int64
	app.db.Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, items)
}

func TestOrdersTableRendersHTML(t *testing.T) {
	app := newTestApp(t)
	staff := app.staffToken()
	dosa := app.menuItem("Masala Dosa", "1250.00")
	order := app.placeOrder(map[string]interface{}{"menu_item": dosa.ID, "quantity": 2})
	app.placeOrder(map[string]interface{}{"menu_item": dosa.ID})

	w, _ := app.request(http.MethodPatch, fmt.Sprintf("/api/orders/%d", order.ID), staff, map[string]string{"status": "ready"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = app.request(http.MethodGet, "/api/orders/table?status=ready", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))

	body := w.Body.String()
	assert.Contains(t, body, fmt.Sprintf(`id="order-%d"`, order.ID))
	assert.Contains(t, body, "₹2,500.00")
	assert.Contains(t, body, "Masala Dosa &times; 2")
	assert.Contains(t, body, `<option value="ready" selected>Ready</option>`)
	assert.Equal(t, 1, strings.Count(body, `<tr id="order-`))

	w, _ = app.request(http.MethodGet, "/api/orders/table?status=cancelled", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No orders with status Cancelled.")
}
