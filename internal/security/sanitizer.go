package security

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// Truncate caps s at max bytes without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// SanitizeString trims whitespace, strips null bytes and caps length.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	return Truncate(input, 4000)
}

// SanitizeHTML removes all HTML tags.
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeText is the intake path for user-authored text (message bodies,
// report details, bios): strip markup first, then normalize.
func SanitizeText(input string) string {
	return SanitizeString(SanitizeHTML(input))
}

// ValidateAttachmentType restricts chat uploads to images and PDFs.
func ValidateAttachmentType(mimeType string) bool {
	if strings.HasPrefix(mimeType, "image/") {
		return true
	}
	return mimeType == "application/pdf"
}

// ValidateAttachmentSize checks an upload against the configured limit.
func ValidateAttachmentSize(size, maxSize int64) bool {
	return size > 0 && size <= maxSize
}
