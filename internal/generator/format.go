package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var placeholderRe = regexp.MustCompile(`\{(n|mes|ciudad)(?::(\d+)d)?\}`)

// formatDescription expands a template pattern. n is the merchant number,
// month any day of the transaction's month and city the {ciudad} value.
func formatDescription(pattern string, n int, month time.Time, city string) string {
	return placeholderRe.ReplaceAllStringFunc(pattern, func(tok string) string {
		m := placeholderRe.FindStringSubmatch(tok)
		switch m[1] {
		case "mes":
			return month.Format("01/2006")
		case "ciudad":
			return city
		}
		spec := m[2]
		if spec == "" {
			return strconv.Itoa(n)
		}
		width, _ := strconv.Atoi(spec)
		if spec[0] == '0' {
			return fmt.Sprintf("%0*d", width, n)
		}
		return fmt.Sprintf("%*d", width, n)
	})
}
