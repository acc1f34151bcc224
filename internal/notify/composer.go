package notify

import (
	"fmt"
	"strings"

	"github.com/tumblera/tumblera-backend/internal/cart"
	"github.com/tumblera/tumblera-backend/pkg/config"
	"github.com/tumblera/tumblera-backend/pkg/enums"
)

// formatItemRowsHTML renders the order lines for the email body. The markup
// mirrors the confirmation template's table layout.
func formatItemRowsHTML(items []cart.Item, currency string) string {
	var b strings.Builder
	for i, item := range items {
		b.WriteString(`<tr style="border-bottom: 1px solid #e5e7eb;">`)
		b.WriteString(`<td style="padding: 12px; text-align: left;">`)
		fmt.Fprintf(&b, "<strong>Custom Tumbler #%d</strong><br>", i+1)
		b.WriteString(`<small style="color: #6b7280;">`)
		fmt.Fprintf(&b, "Size: %sml<br>", item.Size)
		if item.Design.Text != "" {
			fmt.Fprintf(&b, "Text: %q<br>", item.Design.Text)
		}
		fmt.Fprintf(&b, "Font: %s<br>", item.Design.Font)
		switch item.Design.TextOrientation {
		case enums.TextOrientationVerticalUpright:
			b.WriteString("Orientation: Vertical (Upright)<br>")
		case enums.TextOrientationVerticalRotated:
			b.WriteString("Orientation: Vertical (90°)<br>")
		}
		b.WriteString(`</small></td>`)
		fmt.Fprintf(&b, `<td style="padding: 12px; text-align: right; color: #d97706; font-weight: bold;">%s%d</td>`, currency, item.Price)
		b.WriteString(`</tr>`)
	}
	return b.String()
}

// customerParams builds the confirmation template parameters for the buyer.
func customerParams(event OrderPlaced, emailCfg config.EmailJSConfig, pricing config.PricingConfig, siteOrigin string) map[string]any {
	notes := event.CustomerNotes
	if notes == "" {
		notes = "None"
	}
	return map[string]any{
		"to_email":         event.CustomerEmail,
		"to_name":          event.CustomerName,
		"order_id":         event.OrderID,
		"order_date":       event.PlacedAt.Format("January 2, 2006"),
		"customer_name":    event.CustomerName,
		"customer_email":   event.CustomerEmail,
		"customer_phone":   event.CustomerPhone,
		"customer_address": event.CustomerAddress,
		"customer_notes":   notes,
		"item_count":       event.Totals.ItemCount,
		"items_html":       formatItemRowsHTML(event.Items, pricing.Currency),
		"subtotal":         fmt.Sprintf("%s%d", pricing.Currency, event.Totals.Subtotal),
		"shipping":         fmt.Sprintf("%s%d", pricing.Currency, event.Totals.Shipping),
		"total":            fmt.Sprintf("%s%d", pricing.Currency, event.Totals.Total),
		"tracking_url":     fmt.Sprintf("%s/orders?id=%d", siteOrigin, event.OrderID),
		"company_name":     emailCfg.CompanyName,
		"company_website":  siteOrigin,
		"support_email":    emailCfg.SupportEmail,
	}
}

// sellerParams builds the new-order alert parameters for the seller.
func sellerParams(event OrderPlaced, sellerEmail string, pricing config.PricingConfig, siteOrigin string) map[string]any {
	return map[string]any{
		"to_email":         sellerEmail,
		"order_id":         event.OrderID,
		"order_date":       event.PlacedAt.Format("January 2, 2006 3:04 PM"),
		"customer_name":    event.CustomerName,
		"customer_email":   event.CustomerEmail,
		"customer_phone":   event.CustomerPhone,
		"customer_address": event.CustomerAddress,
		"item_count":       event.Totals.ItemCount,
		"total":            fmt.Sprintf("%s%d", pricing.Currency, event.Totals.Total),
		"dashboard_url":    fmt.Sprintf("%s/seller", siteOrigin),
	}
}
