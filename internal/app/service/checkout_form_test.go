package service

import (
	"strings"
	"testing"

	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseForm() CheckoutForm {
	return CheckoutForm{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		CustomerPhone:   "+49 151 1234-5678",
		ShippingAddress: "42 Example Avenue, Floor 3",
		ShippingCity:    "Hamburg",
		ShippingZipCode: "20095",
		ShippingCountry: "Germany",
		PaymentMethod:   model.PaymentMethodCard,
	}
}

func TestCheckoutForm_Validate_OK(t *testing.T) {
	form := baseForm()
	fields := form.Validate()
	assert.Empty(t, fields)
}

func TestCheckoutForm_Validate_NormalizesPhone(t *testing.T) {
	form := baseForm()
	form.CustomerPhone = "+49 (151) 123.456-78"

	fields := form.Validate()
	require.Empty(t, fields)
	assert.Equal(t, "+4915112345678", form.CustomerPhone)
}

func TestCheckoutForm_Validate_TrimsFields(t *testing.T) {
	form := baseForm()
	form.CustomerName = "  Jane Doe  "
	form.ShippingCity = " Hamburg "

	fields := form.Validate()
	require.Empty(t, fields)
	assert.Equal(t, "Jane Doe", form.CustomerName)
	assert.Equal(t, "Hamburg", form.ShippingCity)
}

func TestCheckoutForm_Validate_FieldErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(f *CheckoutForm)
		badField string
	}{
		{"empty name", func(f *CheckoutForm) { f.CustomerName = "" }, "customer_name"},
		{"one-letter name", func(f *CheckoutForm) { f.CustomerName = "J" }, "customer_name"},
		{"name with digits", func(f *CheckoutForm) { f.CustomerName = "Jane 2 Doe" }, "customer_name"},
		{"name without letters", func(f *CheckoutForm) { f.CustomerName = "-- --" }, "customer_name"},
		{"name too long", func(f *CheckoutForm) { f.CustomerName = strings.Repeat("a", 101) }, "customer_name"},
		{"empty email", func(f *CheckoutForm) { f.CustomerEmail = "" }, "customer_email"},
		{"email without at", func(f *CheckoutForm) { f.CustomerEmail = "jane.example.com" }, "customer_email"},
		{"email without domain dot", func(f *CheckoutForm) { f.CustomerEmail = "jane@example" }, "customer_email"},
		{"empty phone", func(f *CheckoutForm) { f.CustomerPhone = "" }, "customer_phone"},
		{"phone too short", func(f *CheckoutForm) { f.CustomerPhone = "12345" }, "customer_phone"},
		{"phone too long", func(f *CheckoutForm) { f.CustomerPhone = strings.Repeat("9", 21) }, "customer_phone"},
		{"empty address", func(f *CheckoutForm) { f.ShippingAddress = "" }, "shipping_address"},
		{"short address", func(f *CheckoutForm) { f.ShippingAddress = "Main St" }, "shipping_address"},
		{"empty city", func(f *CheckoutForm) { f.ShippingCity = "" }, "shipping_city"},
		{"city with digits", func(f *CheckoutForm) { f.ShippingCity = "Hamburg2" }, "shipping_city"},
		{"zip too short", func(f *CheckoutForm) { f.ShippingZipCode = "123" }, "shipping_zip_code"},
		{"zip with letters", func(f *CheckoutForm) { f.ShippingZipCode = "2009A" }, "shipping_zip_code"},
		{"empty country", func(f *CheckoutForm) { f.ShippingCountry = "" }, "shipping_country"},
		{"unknown payment method", func(f *CheckoutForm) { f.PaymentMethod = "barter" }, "payment_method"},
		{"notes too long", func(f *CheckoutForm) { f.Notes = strings.Repeat("x", 201) }, "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := baseForm()
			tt.mutate(&form)

			fields := form.Validate()
			assert.Contains(t, fields, tt.badField)
		})
	}
}

func TestCheckoutForm_Validate_ReportsAllProblemsAtOnce(t *testing.T) {
	form := baseForm()
	form.CustomerName = ""
	form.CustomerEmail = "nope"
	form.ShippingZipCode = "1"

	fields := form.Validate()
	assert.Len(t, fields, 3)
	assert.Contains(t, fields, "customer_name")
	assert.Contains(t, fields, "customer_email")
	assert.Contains(t, fields, "shipping_zip_code")
}

func TestCheckoutForm_Validate_UnicodeNames(t *testing.T) {
	form := baseForm()
	form.CustomerName = "Søren Kierkegaard"
	form.ShippingCity = "Århus"

	fields := form.Validate()
	assert.Empty(t, fields)
}

func TestCheckoutForm_Validate_CityWithPeriod(t *testing.T) {
	form := baseForm()
	form.ShippingCity = "St. Gallen"
	form.ShippingCountry = "Switzerland"

	fields := form.Validate()
	assert.Empty(t, fields)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+49 151 1234 5678", "+4915112345678"},
		{"(0151) 123-456.78", "015112345678"},
		{"0151 1234 5678", "015112345678"},
		{"1+2", "12"}, // plus only kept at the front
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePhone(tt.in))
	}
}
