package usecase

import (
	"math"
	"net/mail"
	"strings"

	domainErrors "github.com/polkiloo/marketplace/internal/domain/errors"
	"github.com/polkiloo/marketplace/internal/domain/model"
)

const (
	minPasswordLength = 6
	maxOrderQuantity  = math.MaxInt32
)

// CreateOrderInput carries checkout data submitted by a buyer.
type CreateOrderInput struct {
	ProductID       int64
	Quantity        int
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
}

func validateCreateOrder(in CreateOrderInput) (model.PaymentMethod, error) {
	if in.ProductID <= 0 {
		return "", domainErrors.ErrNotFound
	}
	if in.Quantity < 1 {
		return "", domainErrors.Validation("quantity must be at least 1")
	}
	if in.Quantity > maxOrderQuantity {
		return "", domainErrors.Validation("quantity must not exceed %d", maxOrderQuantity)
	}
	if missing := in.ShippingAddress.MissingFields(); len(missing) > 0 {
		return "", domainErrors.Validation("shipping address is missing %s", strings.Join(missing, ", "))
	}
	payment, ok := model.ParsePaymentMethod(in.PaymentMethod)
	if !ok {
		return "", domainErrors.Validation("unknown payment method %q", in.PaymentMethod)
	}
	return payment, nil
}

func normalizeAddress(a model.ShippingAddress) model.ShippingAddress {
	return model.ShippingAddress{
		Street:     strings.TrimSpace(a.Street),
		City:       strings.TrimSpace(a.City),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

// ValidateEmail performs RFC 5322 address parsing and rejects display names.
func ValidateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
