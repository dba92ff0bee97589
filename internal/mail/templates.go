package mail

import (
	"fmt"
	"html"
	"strings"

	"github.com/relaykit/quoterelay/internal/models"
)

// QuoteNotificationSubject returns the subject line for a new-quote email.
func QuoteNotificationSubject(sub *models.QuoteSubmission) string {
	if sub.ProductTitle != "" {
		return fmt.Sprintf("New quote request for %s", sub.ProductTitle)
	}
	return fmt.Sprintf("New quote request from %s", sub.CustomerName)
}

// QuoteNotificationHTML returns the HTML email body notifying the merchant
// that a new quote request was submitted through their storefront.
func QuoteNotificationHTML(sub *models.QuoteSubmission) string {
	product := sub.ProductTitle
	if sub.VariantTitle != "" {
		product = product + " — " + sub.VariantTitle
	}
	if product == "" {
		product = "(no product selected)"
	}

	var optional strings.Builder
	if sub.CustomerPhone != "" {
		fmt.Fprintf(&optional, `<p><strong>Phone:</strong> %s</p>`, html.EscapeString(sub.CustomerPhone))
	}
	if sub.CustomerCompany != "" {
		fmt.Fprintf(&optional, `<p><strong>Company:</strong> %s</p>`, html.EscapeString(sub.CustomerCompany))
	}
	if sub.Quantity != "" {
		fmt.Fprintf(&optional, `<p><strong>Quantity:</strong> %s</p>`, html.EscapeString(sub.Quantity))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background-color: #f4f4f7; margin: 0; padding: 0; }
    .container { max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.08); }
    .header { background-color: #1a1a2e; color: #ffffff; padding: 24px 32px; }
    .header h1 { margin: 0; font-size: 20px; font-weight: 600; }
    .body { padding: 32px; color: #333333; line-height: 1.6; }
    .meta { margin-bottom: 24px; }
    .meta p { margin: 4px 0; font-size: 14px; color: #555555; }
    .meta strong { color: #333333; }
    .message-box { background-color: #f8f9fa; border-left: 4px solid #1a1a2e; padding: 16px 20px; border-radius: 0 4px 4px 0; white-space: pre-wrap; word-wrap: break-word; font-size: 14px; color: #333333; }
    .footer { padding: 20px 32px; text-align: center; font-size: 12px; color: #999999; border-top: 1px solid #eeeeee; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>New Quote Request</h1>
    </div>
    <div class="body">
      <div class="meta">
        <p><strong>Product:</strong> %s</p>
        <p><strong>From:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        %s
      </div>
      <div class="message-box">%s</div>
    </div>
    <div class="footer">
      This notification was sent by QuoteRelay for %s.
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(product),
		html.EscapeString(sub.CustomerName),
		html.EscapeString(sub.CustomerEmail),
		optional.String(),
		html.EscapeString(sub.RequestDetails),
		html.EscapeString(sub.Shop),
	)
}

// QuoteNotificationText returns the plain-text alternative body.
func QuoteNotificationText(sub *models.QuoteSubmission) string {
	var b strings.Builder
	b.WriteString("New quote request\n\n")
	if sub.ProductTitle != "" {
		fmt.Fprintf(&b, "Product: %s\n", sub.ProductTitle)
	}
	if sub.VariantTitle != "" {
		fmt.Fprintf(&b, "Variant: %s\n", sub.VariantTitle)
	}
	fmt.Fprintf(&b, "Name: %s\n", sub.CustomerName)
	fmt.Fprintf(&b, "Email: %s\n", sub.CustomerEmail)
	if sub.CustomerPhone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", sub.CustomerPhone)
	}
	if sub.CustomerCompany != "" {
		fmt.Fprintf(&b, "Company: %s\n", sub.CustomerCompany)
	}
	if sub.Quantity != "" {
		fmt.Fprintf(&b, "Quantity: %s\n", sub.Quantity)
	}
	if sub.RequestDetails != "" {
		fmt.Fprintf(&b, "\n%s\n", sub.RequestDetails)
	}
	return b.String()
}
