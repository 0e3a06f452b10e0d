package payment

import (
	"strconv"

	domainErrors "github.com/cassiomorais/connectors/internal/domain/errors"
	"github.com/cassiomorais/connectors/pkg/cards"
	"github.com/cassiomorais/connectors/pkg/masking"
)

// PaymentMethodType tags the active PaymentMethodData variant.
type PaymentMethodType string

const (
	PaymentMethodCard         PaymentMethodType = "card"
	PaymentMethodWallet       PaymentMethodType = "wallet"
	PaymentMethodBankRedirect PaymentMethodType = "bank_redirect"
	PaymentMethodBankTransfer PaymentMethodType = "bank_transfer"
	PaymentMethodPayLater     PaymentMethodType = "pay_later"
	PaymentMethodCrypto       PaymentMethodType = "crypto"
)

var PaymentMethodTypes = []PaymentMethodType{
	PaymentMethodCard,
	PaymentMethodWallet,
	PaymentMethodBankRedirect,
	PaymentMethodBankTransfer,
	PaymentMethodPayLater,
	PaymentMethodCrypto,
}

// PaymentMethodData is the instrument used to pay. Card is set only when
// Type is PaymentMethodCard.
type PaymentMethodData struct {
	Type PaymentMethodType
	Card *Card
}

func CardPayment(c Card) PaymentMethodData {
	return PaymentMethodData{Type: PaymentMethodCard, Card: &c}
}

// Card holds raw card details. Every field is masked when printed.
type Card struct {
	Number     cards.CardNumber
	ExpMonth   masking.Secret[string]
	ExpYear    masking.Secret[string]
	CVC        masking.Secret[string]
	HolderName masking.Secret[string]
}

func (c Card) Validate() error {
	if c.Number.IsZero() {
		return domainErrors.NewValidationError("card.number", "is required")
	}
	month := c.ExpMonth.Expose()
	if !isDigits(month) || len(month) > 2 {
		return domainErrors.NewValidationError("card.exp_month", "must be between 01 and 12")
	}
	if m, _ := strconv.Atoi(month); m < 1 || m > 12 {
		return domainErrors.NewValidationError("card.exp_month", "must be between 01 and 12")
	}
	year := c.ExpYear.Expose()
	if !isDigits(year) || (len(year) != 2 && len(year) != 4) {
		return domainErrors.NewValidationError("card.exp_year", "must be 2 or 4 digits")
	}
	cvc := c.CVC.Expose()
	if !isDigits(cvc) || len(cvc) < 3 || len(cvc) > 4 {
		return domainErrors.NewValidationError("card.cvc", "must be 3 or 4 digits")
	}
	return nil
}

func (d PaymentMethodData) Validate() error {
	if d.Type == PaymentMethodCard {
		if d.Card == nil {
			return domainErrors.NewValidationError("payment_method_data.card", "is required for card payments")
		}
		return d.Card.Validate()
	}
	for _, t := range PaymentMethodTypes {
		if d.Type == t {
			return nil
		}
	}
	return domainErrors.NewValidationError("payment_method", "unknown payment method type")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
