package checkout

import (
	"testing"

	"shopco-storefront/internal/order"

	"github.com/stretchr/testify/assert"
)

func TestLookupPaymentOption(t *testing.T) {
	opt, ok := LookupPaymentOption(order.PaymentCard)
	assert.True(t, ok)
	assert.Equal(t, "Credit / Debit Card", opt.Name)

	_, ok = LookupPaymentOption("paypal")
	assert.False(t, ok)

	assert.Equal(t, order.PaymentCash, PaymentOptions[0].ID)
}

func TestInstructions(t *testing.T) {
	t.Run("ReplacesPlaceholders", func(t *testing.T) {
		steps := Instructions(order.PaymentCash, InstructionVars{"amount": "EGP 120.00", "city": "Cairo", "phone": "01012345678"})
		assert.Equal(t, "Your order will be delivered to Cairo", steps[0])
		assert.Equal(t, "Prepare EGP 120.00 in cash when the courier arrives", steps[1])
	})

	t.Run("LeavesMissingVariables", func(t *testing.T) {
		steps := Instructions(order.PaymentCard, nil)
		assert.Contains(t, steps[1], "{{amount}}")
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		assert.Len(t, Instructions("paypal", nil), 1)
	})
}
