package blogservice

import (
	"regexp"
	"strings"
)

var (
	scriptTagPattern = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

	// htmlEscaper replaces the characters that are unsafe inside HTML text and attributes.
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		`"`, "&quot;",
		"'", "&#x27;",
		"<", "&lt;",
		">", "&gt;",
		"/", "&#x2F;",
		`\`, "&#x5C;",
		"`", "&#96;",
	)
)

func sanitizeMarkdown(markdown string) string {
	return scriptTagPattern.ReplaceAllString(markdown, "")
}

// sanitizeText trims s and escapes it for safe embedding in HTML.
func sanitizeText(s string) string {
	return htmlEscaper.Replace(strings.TrimSpace(s))
}

// sanitizeBody trims the body and strips script blocks from it.
func sanitizeBody(s string) string {
	return strings.TrimSpace(sanitizeMarkdown(s))
}

// sanitizeTags trims and escapes every tag, dropping the ones left empty.
func sanitizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = sanitizeText(tag)
		if tag == "" {
			continue
		}
		out = append(out, tag)
	}

	return out
}
