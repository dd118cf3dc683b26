package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
)

var (
	nameRe    = regexp.MustCompile(`^[\p{L} \-]+$`)
	hasLetter = regexp.MustCompile(`\p{L}`)
	emailRe   = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	cityRe    = regexp.MustCompile(`^[\p{L} \-.]+$`)
	zipRe     = regexp.MustCompile(`^[0-9]{5,10}$`)
	phoneRe   = regexp.MustCompile(`^\+?[0-9]{10,20}$`)
)

// CheckoutForm carries the customer/shipping fields submitted at
// checkout. Every field is validated independently so the response can
// report all problems at once.
type CheckoutForm struct {
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	ShippingAddress string              `json:"shipping_address"`
	ShippingCity    string              `json:"shipping_city"`
	ShippingZipCode string              `json:"shipping_zip_code"`
	ShippingCountry string              `json:"shipping_country"`
	PaymentMethod   model.PaymentMethod `json:"payment_method"`
	Notes           string              `json:"notes"`
}

// CheckoutValidationError reports per-field validation messages.
type CheckoutValidationError struct {
	Fields map[string]string
}

func (e *CheckoutValidationError) Error() string {
	return fmt.Sprintf("checkout form validation failed (%d fields)", len(e.Fields))
}

// normalizePhone strips common formatting (spaces, parentheses,
// hyphens, dots) and keeps digits plus one leading +.
func normalizePhone(raw string) string {
	var b strings.Builder
	for i, c := range raw {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
			continue
		}
		if c == '+' && i == 0 {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Validate trims and checks every field, returning a per-field message
// map. An empty map means the form is valid. The form's fields are
// normalized in place (trimmed, phone stripped of formatting).
func (f *CheckoutForm) Validate() map[string]string {
	fields := make(map[string]string)

	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.CustomerEmail = strings.TrimSpace(f.CustomerEmail)
	f.ShippingAddress = strings.TrimSpace(f.ShippingAddress)
	f.ShippingCity = strings.TrimSpace(f.ShippingCity)
	f.ShippingZipCode = strings.TrimSpace(f.ShippingZipCode)
	f.ShippingCountry = strings.TrimSpace(f.ShippingCountry)
	f.Notes = strings.TrimSpace(f.Notes)
	f.CustomerPhone = normalizePhone(strings.TrimSpace(f.CustomerPhone))

	nameLen := utf8.RuneCountInString(f.CustomerName)
	switch {
	case f.CustomerName == "":
		fields["customer_name"] = "Name is required"
	case nameLen < 2 || nameLen > 100:
		fields["customer_name"] = "Name must be between 2 and 100 characters"
	case !nameRe.MatchString(f.CustomerName) || !hasLetter.MatchString(f.CustomerName):
		fields["customer_name"] = "Name may only contain letters, spaces and hyphens"
	}

	switch {
	case f.CustomerEmail == "":
		fields["customer_email"] = "Email is required"
	case strings.Contains(f.CustomerEmail, " ") || !emailRe.MatchString(f.CustomerEmail):
		fields["customer_email"] = "Enter a valid email address"
	}

	if f.CustomerPhone == "" {
		fields["customer_phone"] = "Phone number is required"
	} else if !phoneRe.MatchString(f.CustomerPhone) {
		fields["customer_phone"] = "Phone number must contain 10 to 20 digits"
	}

	addrLen := utf8.RuneCountInString(f.ShippingAddress)
	switch {
	case f.ShippingAddress == "":
		fields["shipping_address"] = "Shipping address is required"
	case addrLen < 10 || addrLen > 200:
		fields["shipping_address"] = "Address must be between 10 and 200 characters"
	}

	if msg := validatePlaceName(f.ShippingCity); msg != "" {
		fields["shipping_city"] = msg
	}
	if msg := validatePlaceName(f.ShippingCountry); msg != "" {
		fields["shipping_country"] = msg
	}

	if !zipRe.MatchString(f.ShippingZipCode) {
		fields["shipping_zip_code"] = "Zip code must contain 5 to 10 digits"
	}

	switch f.PaymentMethod {
	case model.PaymentMethodCard, model.PaymentMethodCash, model.PaymentMethodOnline:
	default:
		fields["payment_method"] = "Choose a payment method: card, cash or online"
	}

	if utf8.RuneCountInString(f.Notes) > 200 {
		fields["notes"] = "Notes must be at most 200 characters"
	}

	return fields
}

func validatePlaceName(name string) string {
	length := utf8.RuneCountInString(name)
	switch {
	case name == "":
		return "This field is required"
	case length < 2 || length > 50:
		return "Must be between 2 and 50 characters"
	case !cityRe.MatchString(name):
		return "May only contain letters, spaces, hyphens and periods"
	}
	return ""
}
