package controllers

import (
	"html/template"

	"github.com/yeremiapane/canteen-pos/models"
	"github.com/yeremiapane/canteen-pos/utils"
)

var ordersTable = template.Must(template.New("orders_table").Funcs(template.FuncMap{
	"money": func(m models.Money) string { return utils.FormatCurrency(m.Decimal) },
}).Parse(`<table class="orders-table">
  <thead>
    <tr>
      <th>Order</th><th>Customer</th><th>Room</th><th>Items</th><th>Total</th><th>Payment</th><th>Status</th><th>Placed</th>
    </tr>
  </thead>
  <tbody>
  {{- range .Orders}}
    <tr id="order-{{.ID}}" class="status-{{.Status}}">
      <td>#{{.ID}}</td>
      <td>{{.CustomerName}}{{if .CustomerPhone}}<br><small>{{.CustomerPhone}}</small>{{end}}</td>
      <td>{{.RoomNumber}}</td>
      <td>
        <ul>
        {{- range .Items}}
          <li>{{.MenuItemName}} &times; {{.Quantity}} <span>{{money .Subtotal}}</span></li>
        {{- end}}
        </ul>
        {{- if .SpecialInstructions}}<small>{{.SpecialInstructions}}</small>{{end}}
      </td>
      <td>{{money .TotalPrice}}</td>
      <td>{{.PaymentMethod.Label}}</td>
      <td>
        <select name="status" data-order-id="{{.ID}}">
        {{- $current := .Status}}
        {{- range $.Statuses}}
          <option value="{{.}}"{{if eq . $current}} selected{{end}}>{{.Label}}</option>
        {{- end}}
        </select>
      </td>
      <td><time datetime="{{.CreatedAt.Format "2006-01-02T15:04:05Z07:00"}}">{{.CreatedAt.Format "02 Jan 15:04"}}</time></td>
    </tr>
  {{- else}}
    <tr><td colspan="8">No orders{{if .Filter}} with status {{.Filter.Label}}{{end}}.</td></tr>
  {{- end}}
  </tbody>
</table>
`))
