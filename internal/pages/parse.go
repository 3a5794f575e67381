// File: internal/pages/parse.go
package pages

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports numeric text that could not be interpreted. The raw
// input is preserved so the failure names what was actually on screen.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse %q as a currency amount", e.Input)
}

// ParseCurrency interprets displayed currency text as a decimal number.
// Currency symbols, thousands separators and surrounding whitespace are
// stripped; sign is preserved. Text that does not yield a valid number is a
// *ParseError, never a silent zero.
func ParseCurrency(text string) (float64, error) {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, &ParseError{Input: text}
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &ParseError{Input: text}
	}
	return value, nil
}

// FormatAmount renders a float the way the bank's forms expect it.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
