package mailing

import (
	"errors"
	"testing"
	"veronikaextra-backend/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	enabled bool
	err     error
	sent    []sentMail
}

func (f *fakeMailer) Enabled() bool { return f.enabled }

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, body})
	return nil
}

func settledEvent() []byte {
	return []byte(`{"provider":"CASHFREE","order_id":"3f2a9c1e-50-1","user_name":"Asha <3","user_email":"asha@example.com","credits":50,"amount":149,"currency":"INR","balance":60}`)
}

func TestReceiptHandlerSendsMail(t *testing.T) {
	mailer := &fakeMailer{enabled: true}
	require.NoError(t, ReceiptHandler(mailer, "https://veronikaextra.app")(settledEvent()))

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "asha@example.com", mailer.sent[0].to)
	assert.Equal(t, "VERONIKAextra receipt for order 3f2a9c1e-50-1", mailer.sent[0].subject)
	assert.Contains(t, mailer.sent[0].body, "149.00 INR")
	assert.Contains(t, mailer.sent[0].body, "Asha &lt;3")
	assert.Contains(t, mailer.sent[0].body, "https://veronikaextra.app")
}

func TestReceiptHandlerSkips(t *testing.T) {
	disabled := &fakeMailer{}
	require.NoError(t, ReceiptHandler(disabled, "")(settledEvent()))
	assert.Empty(t, disabled.sent)

	enabled := &fakeMailer{enabled: true}
	require.NoError(t, ReceiptHandler(enabled, "")([]byte(`not json`)))
	require.NoError(t, ReceiptHandler(enabled, "")([]byte(`{"order_id":"x"}`)))
	assert.Empty(t, enabled.sent)
}

func TestReceiptHandlerReturnsSendError(t *testing.T) {
	mailer := &fakeMailer{enabled: true, err: errors.New("smtp down")}
	assert.EqualError(t, ReceiptHandler(mailer, "")(settledEvent()), "smtp down")
}

func TestRenderReceipt(t *testing.T) {
	_, body, err := RenderReceipt(domain.PaymentSettledEvent{
		OrderID:  "CRYPTO-x",
		Credits:  200,
		Amount:   decimal.RequireFromString("3.6"),
		Currency: domain.CurrencyUSD,
		Provider: domain.ProviderOxapay,
	}, "")
	require.NoError(t, err)
	assert.Contains(t, body, "3.60 USD")
	assert.NotContains(t, body, "Start generating")
}
