package checkout

import (
	"strings"

	"shopco-storefront/internal/order"
)

type PaymentOption struct {
	ID          order.PaymentMethod `json:"id"`
	Name        string              `json:"name"`
	Icon        string              `json:"icon"`
	Description string              `json:"description"`
}

// PaymentOptions lists the selectable methods; the first one is the default.
var PaymentOptions = []PaymentOption{
	{ID: order.PaymentCash, Name: "Cash on Delivery", Icon: "payments", Description: "Pay with cash when your order arrives"},
	{ID: order.PaymentCard, Name: "Credit / Debit Card", Icon: "credit_card", Description: "Pay securely online via Stripe"},
}

func LookupPaymentOption(id order.PaymentMethod) (PaymentOption, bool) {
	for _, opt := range PaymentOptions {
		if opt.ID == id {
			return opt, true
		}
	}
	return PaymentOption{}, false
}

var instructionMap = map[order.PaymentMethod][]string{
	order.PaymentCash: {
		"Your order will be delivered to {{city}}",
		"Prepare {{amount}} in cash when the courier arrives",
		"Keep your phone {{phone}} reachable for the courier",
	},
	order.PaymentCard: {
		"You will be redirected to a secure payment page",
		"Pay {{amount}} with your credit or debit card",
		"You will return to your order history once the payment is done",
	},
}

type InstructionVars map[string]string

// Instructions returns the review-step hints for method with vars filled in.
func Instructions(method order.PaymentMethod, vars InstructionVars) []string {
	steps, ok := instructionMap[method]
	if !ok {
		return []string{"Follow the payment instructions on this page"}
	}
	return injectVariables(steps, vars)
}

func injectVariables(steps []string, vars InstructionVars) []string {
	result := make([]string, 0, len(steps))
	for _, step := range steps {
		updated := step
		for key, value := range vars {
			updated = strings.ReplaceAll(updated, "{{"+key+"}}", value)
		}
		result = append(result, updated)
	}
	return result
}
