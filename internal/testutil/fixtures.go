package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/cassiomorais/connectors/internal/connector"
	"github.com/cassiomorais/connectors/internal/domain/payment"
	"github.com/cassiomorais/connectors/pkg/cards"
	"github.com/cassiomorais/connectors/pkg/masking"
)

const (
	TestMerchantID = "merchant_1"
	TestAPIKey     = "sk_test_4eC39HqLyjWDarjtT1zdp7dc"
	TestCardNumber = "4242424242424242"
)

func NewTestCard() payment.Card {
	return payment.Card{
		Number:     cards.MustCardNumber(TestCardNumber),
		ExpMonth:   masking.NewSecret("12"),
		ExpYear:    masking.NewSecret("2030"),
		CVC:        masking.NewSecret("123"),
		HolderName: masking.NewSecret("Jane Doe"),
	}
}

func NewTestAmount(minor int64) payment.Amount {
	return payment.Amount{Minor: minor, Currency: payment.USD}
}

// JSONResponse builds a connector reply with v encoded as the body.
func JSONResponse(status int, v any) *connector.Response {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return &connector.Response{StatusCode: status, Body: body}
}

// ChargeBody is a minimal Stripe charge reply.
func ChargeBody(id, status string, amountMinor string) map[string]any {
	return map[string]any{
		"id":       id,
		"amount":   amountMinor,
		"currency": "USD",
		"status":   status,
		"captured": fmt.Sprintf("%t", status == "Successful"),
		"card": map[string]any{
			"brand":   "Visa",
			"first6":  "424242",
			"last4":   "4242",
			"country": "US",
		},
	}
}

// StripeErrorBody is a Stripe error reply.
func StripeErrorBody(code, message string) map[string]any {
	return map[string]any{"code": code, "message": message}
}
