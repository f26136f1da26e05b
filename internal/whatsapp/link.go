// Package whatsapp builds wa.me deep links for the sales handoff paths.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"
)

// Link builds a https://wa.me/<number>?text=<message> deep link. The number
// may contain spaces, dashes or a leading "+"; only digits are kept.
func Link(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	if message == "" {
		return "https://wa.me/" + digits
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}

// PurchaseLink is the handoff opened after the package purchase form.
func PurchaseLink(number, packageName, visitorName string) string {
	msg := fmt.Sprintf("Hi Solar Gear! I'm interested in the %s. My name is %s. Let's discuss installation.", packageName, visitorName)
	return Link(number, msg)
}

// AuditPhotosLink asks the visitor to send their bill and board photos after
// a satellite audit request.
func AuditPhotosLink(number string) string {
	return Link(number, "Hi Solar Gear, I just requested a Satellite Audit. Here are the photos of my KPLC bill and DB board.")
}

// EscalationLink hands a chat visitor over to a human engineer.
func EscalationLink(number string) string {
	return Link(number, "Hi Solar Gear, I'm chatting with your AI but want to speak with a human engineer now.")
}
