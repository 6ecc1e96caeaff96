package extract

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// systemMailMarkers disqualify an address as a human contact.
var systemMailMarkers = []string{
	"noreply", "no-reply", "donotreply", "do-not-reply",
	"unsubscribe", "mailer", "bounce", "notification", "newsletter",
}

// FindContactEmail returns the first syntactically valid address in the text
// that does not look like a system mailbox, or "".
func FindContactEmail(text string) string {
	for _, addr := range emailRe.FindAllString(text, 10) {
		lower := strings.ToLower(addr)
		system := false
		for _, marker := range systemMailMarkers {
			if strings.Contains(lower, marker) {
				system = true
				break
			}
		}
		if !system {
			return addr
		}
	}
	return ""
}
