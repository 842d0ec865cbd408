package service

import (
	"bytes"
	"html/template"
	"strings"
)

const emailFooter = `<p style="color: #666; font-size: 12px; margin-top: 30px;">This is an automated message from {{.AppName}}</p>`

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "order_placed"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #10b981;">Order Confirmation</h2>
<p>Dear {{.Name}},</p>
<p>Thank you for your order! Your order has been successfully placed.</p>
<div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
<h3 style="margin-top: 0;">Order Details</h3>
<p><strong>Order Number:</strong> {{.OrderNumber}}</p>
<p><strong>Total Amount:</strong> ₹{{.Total}}</p>
<p><strong>Estimated Delivery:</strong> {{.EstimatedDelivery}}</p>
</div>
<p>You can track your order status in your account.</p>
` + emailFooter + `
</div>{{end}}
{{define "farmer_new_order"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #10b981;">New Order Received!</h2>
<p>Dear {{.Name}},</p>
<p>Great news! You have received a new order.</p>
<div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
<h3 style="margin-top: 0;">Order Details</h3>
<p><strong>Order Number:</strong> {{.OrderNumber}}</p>
<p><strong>Total Amount:</strong> ₹{{.Total}}</p>
<p><strong>Items:</strong> {{.ItemCount}}</p>
</div>
<p>Please log in to your dashboard to view order details and confirm the order.</p>
` + emailFooter + `
</div>{{end}}
{{define "order_status"}}<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2 style="color: #10b981;">Order Status Update</h2>
<p>Dear {{.Name}},</p>
<p>{{.Message}}</p>
<div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">
<p><strong>Order Number:</strong> {{.OrderNumber}}</p>
<p><strong>Status:</strong> <span style="color: #10b981; text-transform: capitalize;">{{.StatusLabel}}</span></p>
{{if .TrackingNumber}}<p><strong>Tracking Number:</strong> {{.TrackingNumber}}</p>{{end}}
</div>
` + emailFooter + `
</div>{{end}}
`))

type emailTemplateData struct {
	AppName           string
	Name              string
	OrderNumber       string
	Total             string
	EstimatedDelivery string
	ItemCount         int
	Message           string
	StatusLabel       string
	TrackingNumber    string
}

func renderEmail(name string, data emailTemplateData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// orderStatusMessages 订单状态对应的顾客提示文案
var orderStatusMessages = map[string]string{
	"confirmed":        "Your order has been confirmed and is being prepared.",
	"processing":       "Your order is being processed.",
	"shipped":          "Your order has been shipped and is on its way!",
	"out_for_delivery": "Your order is out for delivery.",
	"delivered":        "Your order has been delivered successfully.",
	"cancelled":        "Your order has been cancelled.",
}

// statusTitle 仅首字母大写，例如 out_for_delivery -> Out_for_delivery
func statusTitle(status string) string {
	if status == "" {
		return status
	}
	return strings.ToUpper(status[:1]) + status[1:]
}

func statusLabel(status string) string {
	return strings.ReplaceAll(status, "_", " ")
}
