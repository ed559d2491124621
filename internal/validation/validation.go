// Package validation checks shorten-form rows before anything is sent to the backend.
package validation

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/axellelanca/urlshortener-frontend/internal/models"
)

// Messages shown to the user, in the order the rules are applied.
const (
	MsgURLRequired      = "Original URL required"
	MsgInvalidURLFormat = "Invalid URL format"
	MsgInvalidProtocol  = "Invalid protocol"
	MsgInvalidValidity  = "validityMinutes must be non-negative integer"
	MsgInvalidShortcode = "shortcode must be 4-12 alnum/_/-"
)

var shortcodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,12}$`)

// ValidateRow returns the message of the first rule the row breaks, or "" when the row is valid.
func ValidateRow(r models.Row) string {
	if r.OriginalURL == "" {
		return MsgURLRequired
	}

	u, err := url.Parse(normalizeURL(r.OriginalURL))
	if err != nil || u.Scheme == "" {
		return MsgInvalidURLFormat
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return MsgInvalidProtocol
	}
	// http and https always carry an authority.
	if u.Host == "" || u.Hostname() == "" {
		return MsgInvalidURLFormat
	}

	if r.ValidityMinutes != "" {
		if _, ok := ParseValidity(r.ValidityMinutes); !ok {
			return MsgInvalidValidity
		}
	}

	if r.PreferredShortcode != "" && !ValidShortcode(r.PreferredShortcode) {
		return MsgInvalidShortcode
	}

	return ""
}

// normalizeURL applies the browser's lenient URL input rules before parsing:
// surrounding spaces and control characters are dropped, tabs and newlines are
// removed, and for http(s) any run of slashes after the scheme starts the
// authority and backslashes in the path act as slashes. A stray '%' after the
// host stays a literal percent sign.
func normalizeURL(raw string) string {
	s := strings.TrimFunc(raw, func(r rune) bool { return r <= ' ' })
	s = tabsAndNewlines.Replace(s)

	scheme, rest, ok := strings.Cut(s, ":")
	if !ok {
		return s
	}
	switch strings.ToLower(scheme) {
	case "http", "https":
	default:
		return s
	}

	rest = strings.TrimLeft(rest, `/\`)
	end := strings.IndexAny(rest, `/\?#`)
	if end < 0 {
		return scheme + "://" + rest
	}
	tail := rest[end:]
	pathEnd := strings.IndexAny(tail, "?#")
	if pathEnd < 0 {
		pathEnd = len(tail)
	}
	tail = strings.ReplaceAll(tail[:pathEnd], `\`, "/") + tail[pathEnd:]
	return scheme + "://" + rest[:end] + escapeStrayPercents(tail)
}

var tabsAndNewlines = strings.NewReplacer("\t", "", "\n", "", "\r", "")

func escapeStrayPercents(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && (i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// ParseValidity converts validity text to whole minutes.
// Surrounding whitespace is ignored and any numeric notation with an integral
// value is accepted ("30", "30.0", "3e1"); negatives, fractions, non-finite
// and non-numeric text are rejected.
func ParseValidity(s string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// ValidShortcode reports whether code is 4 to 12 characters of letters, digits, '_' or '-'.
func ValidShortcode(code string) bool {
	return shortcodePattern.MatchString(code)
}
