package scrape

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// cleanText collapses whitespace runs and trims the string.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// htmlToText converts an HTML fragment to plain text. Feed and listing-page
// descriptions routinely arrive as markup.
func htmlToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cleanText(textPolicy.Sanitize(html))
	}
	return cleanText(doc.Text())
}

// sanitizeDescription strips markup and invalid UTF-8, then bounds length so
// one verbose source cannot bloat the table.
func sanitizeDescription(s string) string {
	s = cleanText(textPolicy.Sanitize(strings.ToValidUTF8(s, "")))
	return truncateText(s, 2000)
}

func truncateText(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen > 3 {
		return s[:maxLen-3] + "..."
	}
	return s[:maxLen]
}

// stableID derives a solicitation number for sources that don't issue one.
// It hashes the listing's identity fields so repeated fetches of the same
// listing always produce the same number.
func stableID(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "GEN-" + strings.ToUpper(hex.EncodeToString(h[:6]))
}
