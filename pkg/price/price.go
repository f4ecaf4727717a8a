// Package price derives booking prices from an hourly rate and a time window.
package price

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"tableflip.dev/agenda/pkg/timeutil"
)

// Places is the number of fraction digits prices carry.
const Places = 2

// Compute returns ratePerHour times the window length in hours, rounded to
// two decimals. ok is false when end is not after start or an input does not
// parse.
func Compute(start, end, ratePerHour string) (string, bool) {
	span, err := timeutil.Span(start, end)
	if err != nil || span <= 0 {
		return "", false
	}
	rate, err := Parse(ratePerHour)
	if err != nil {
		return "", false
	}
	hours := decimal.NewFromInt(int64(span)).Div(decimal.NewFromInt(60))
	return rate.Mul(hours).StringFixed(Places), true
}

// Parse reads a decimal string with at most two fraction digits. An empty
// string parses as zero.
func Parse(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("price: invalid amount %q", v)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("price: negative amount %q", v)
	}
	if d.Exponent() < -Places && !d.Equal(d.Round(Places)) {
		return decimal.Zero, fmt.Errorf("price: %q has more than %d decimals", v, Places)
	}
	return d, nil
}

// Normalize renders v in fixed-point form. Unparseable input is returned as is.
func Normalize(v string) string {
	if strings.TrimSpace(v) == "" {
		return ""
	}
	d, err := Parse(v)
	if err != nil {
		return v
	}
	return d.StringFixed(Places)
}

// Sum adds a list of price strings, ignoring entries that do not parse.
func Sum(values ...string) string {
	total := decimal.Zero
	for _, v := range values {
		d, err := Parse(v)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}
	return total.StringFixed(Places)
}
