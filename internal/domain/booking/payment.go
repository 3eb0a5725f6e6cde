package booking

import "strings"

// PaymentCard carries the display-only payment fields captured on the form.
// Only a masked number is ever held; the flow does not process payments.
type PaymentCard struct {
	NameOnCard       string `json:"name_on_card"`
	CardType         string `json:"card_type"`
	CardNumberMasked string `json:"card_number_masked"`
}

// MaskCardNumber reduces a card number to its last four digits. Anything
// shorter than five digits is masked entirely.
func MaskCardNumber(number string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	if digits == "" {
		return ""
	}
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + digits[len(digits)-4:]
}
