package extract

import "strings"

// FromText extracts drafts from freeform pasted text.
func FromText(text string) []Draft {
	return extractFromText(text, ChannelFreeText, "Pasted text")
}

// FromPDFText extracts drafts from text recovered from a PDF. The PDF binary
// itself is decoded upstream; this stage only sees its text.
func FromPDFText(text string) []Draft {
	return extractFromText(text, ChannelPDF, "PDF Import")
}

// FromEmail extracts drafts from a pasted plain-text email body. Signature
// and footer stripping runs before the field heuristics.
func FromEmail(text string) []Draft {
	return extractFromText(CleanEmailBody(text), ChannelEmail, "Email import")
}

// channelForURL refines the channel tag when a source URL identifies the
// origin platform.
func channelForURL(sourceURL, fallback string) string {
	if strings.Contains(strings.ToLower(sourceURL), "linkedin.") {
		return ChannelLinkedIn
	}
	return fallback
}
