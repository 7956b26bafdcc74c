package format

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const (
	DisplayDate = "Jan 2, 2006"
	Placeholder = "-"
)

// backend timestamps come as local date-times without a zone
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date renders a backend date or timestamp as "Jan 2, 2006".
func Date(s string) string {
	if s == "" {
		return Placeholder
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DisplayDate)
		}
	}
	return s
}

// Currency renders amount in USD, e.g. "$1,234.56".
func Currency(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// Status returns the badge text and severity for an active flag.
func Status(active bool) (text, severity string) {
	if active {
		return "Active", "success"
	}
	return "Inactive", "danger"
}

// Initials takes the first letter of the first two words, upper-cased.
func Initials(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		b.WriteString(strings.ToUpper(string([]rune(w)[:1])))
		if b.Len() >= 2 {
			break
		}
	}
	return b.String()
}

// Avatar is the generated placeholder image for a record without a photo.
func Avatar(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=3b82f6&color=fff&size=100",
		url.QueryEscape(Initials(name)))
}

// Or returns s, or the placeholder when s is empty.
func Or(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}
