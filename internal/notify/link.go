package notify

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizePhone strips a phone number down to digits and ensures it starts
// with the given country code, so it is usable in a wa.me link. Local
// numbers (with or without a leading trunk zero) get the code prepended.
func NormalizePhone(phone, countryCode string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	number := digits.String()
	if number == "" {
		return number
	}

	number = strings.TrimPrefix(number, "0")
	if !strings.HasPrefix(number, countryCode) {
		number = countryCode + number
	}
	return number
}

// WhatsAppLink builds a wa.me deep link that opens a chat with the customer
// pre-filled with the given text.
func (t *Templates) WhatsAppLink(phone, text string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", NormalizePhone(phone, t.CountryCode), url.QueryEscape(text))
}
