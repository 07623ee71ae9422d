package validation

import (
	"reflect"
	"regexp"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3}$`)
	walletRe     = regexp.MustCompile(`^\+?\d{9,15}$`)
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validatorv10.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterStructValidation(placeOrderStructValidation, PlaceOrderRequest{})
	v.RegisterStructValidation(paymentStructValidation, PaymentRequest{})

	return v
}

// placeOrderStructValidation requires an address for delivery orders.
func placeOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(PlaceOrderRequest)
	if req.Type == "delivery" && strings.TrimSpace(req.DeliveryAddress) == "" {
		sl.ReportError(req.DeliveryAddress, "deliveryAddress", "DeliveryAddress", "required_for_delivery", "")
	}
}

// paymentStructValidation checks the shape of the fields the chosen method needs.
// Card numbers may contain spaces, as typed.
func paymentStructValidation(sl validatorv10.StructLevel) {
	p := sl.Current().Interface().(PaymentRequest)
	switch p.Method {
	case "card":
		if !cardNumberRe.MatchString(strings.ReplaceAll(p.CardNumber, " ", "")) {
			sl.ReportError(p.CardNumber, "cardNumber", "CardNumber", "card_number", "")
		}
		if strings.TrimSpace(p.CardHolderName) == "" {
			sl.ReportError(p.CardHolderName, "cardHolderName", "CardHolderName", "required_for_card", "")
		}
		if !expiryRe.MatchString(p.Expiry) {
			sl.ReportError(p.Expiry, "expiry", "Expiry", "mm_yy", "")
		}
		if !cvvRe.MatchString(p.CVV) {
			sl.ReportError(p.CVV, "cvv", "CVV", "cvv", "")
		}
	case "mobile_wallet":
		if !walletRe.MatchString(strings.ReplaceAll(p.WalletNumber, " ", "")) {
			sl.ReportError(p.WalletNumber, "walletNumber", "WalletNumber", "wallet_number", "")
		}
	}
}
