package views

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PathEscape wraps url.PathEscape for building links in components.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// FlashClass returns CSS classes for a notification, by kind.
func FlashClass(kind string) string {
	base := "flash"
	switch kind {
	case "success", "error", "warning":
		return base + " flash-" + kind
	default:
		return base + " flash-info"
	}
}

// Initials is the avatar text for a display name.
func Initials(name string) string {
	var b strings.Builder
	n := 0
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		if n++; n == 2 {
			break
		}
	}
	if n == 0 {
		return "?"
	}
	return b.String()
}

// Rupees formats an amount with Indian digit grouping, e.g. 1,25,000.
func Rupees(s string) string {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if _, err := strconv.Atoi(whole); err != nil || strings.HasPrefix(whole, "-") {
		return s
	}
	if len(whole) > 3 {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		whole = strings.Join(groups, ",") + "," + tail
	}
	if frac != "" {
		return whole + "." + frac
	}
	return whole
}

// OrNA substitutes "N/A" for an empty value.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// FirstTags returns at most n tags for a card.
func FirstTags(tags []string, n int) []string {
	if len(tags) <= n {
		return tags
	}
	return tags[:n]
}

// Options marks the option matching value as selected.
func Options(values []string, selected string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v, Selected: v == selected})
	}
	return out
}
