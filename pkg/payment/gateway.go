package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"veronikaextra-backend/domain"
)

// GatewayError is a rejected or failed call to a payment gateway.
type GatewayError struct {
	Gateway string
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s", domain.ErrPaymentGateway.Error(), e.Message)
}

func (e *GatewayError) Unwrap() error {
	return domain.ErrPaymentGateway
}

// flexString accepts ids that gateways send either as JSON numbers or strings.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		return "Empty response from payment gateway."
	}
	return s
}
