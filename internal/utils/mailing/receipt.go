package mailing

import (
	"bytes"
	"encoding/json"
	"html/template"
	"veronikaextra-backend/domain"

	"github.com/gofiber/fiber/v2/log"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`<div style="font-family:sans-serif">
<h2>{{.Brand}} payment receipt</h2>
<p>Hi {{.Event.UserName}},</p>
<p>We received your payment for order <strong>{{.Event.OrderID}}</strong>.</p>
<table>
<tr><td>Credits added</td><td>{{.Event.Credits}}</td></tr>
<tr><td>Amount</td><td>{{.Event.Amount.StringFixed 2}} {{.Event.Currency}}</td></tr>
<tr><td>New balance</td><td>{{.Event.Balance}}</td></tr>
<tr><td>Paid via</td><td>{{.Event.Provider}}</td></tr>
</table>
{{if .AppURL}}<p><a href="{{.AppURL}}">Start generating</a></p>{{end}}
</div>`))

// RenderReceipt builds the subject and HTML body for a settled payment.
func RenderReceipt(event domain.PaymentSettledEvent, appURL string) (string, string, error) {
	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, struct {
		Brand  string
		AppURL string
		Event  domain.PaymentSettledEvent
	}{domain.BrandName, appURL, event})
	if err != nil {
		return "", "", err
	}
	return domain.BrandName + " receipt for order " + event.OrderID, buf.String(), nil
}

// ReceiptHandler consumes payment.settled messages and emails the buyer.
// Undecodable messages are acked and dropped.
func ReceiptHandler(mailer Mailer, appURL string) func(body []byte) error {
	return func(body []byte) error {
		var event domain.PaymentSettledEvent
		if err := json.Unmarshal(body, &event); err != nil {
			log.Errorf("dropping malformed %s message: %v", domain.EventPaymentSettled, err)
			return nil
		}
		if event.UserEmail == "" || !mailer.Enabled() {
			return nil
		}

		subject, html, err := RenderReceipt(event, appURL)
		if err != nil {
			return err
		}
		if err := mailer.Send(event.UserEmail, subject, html); err != nil {
			log.Errorf("failed to send receipt for %s: %v", event.OrderID, err)
			return err
		}
		log.Infof("receipt sent for %s to %s", event.OrderID, event.UserEmail)
		return nil
	}
}
