package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val < 1 {
		v[field] = "must_be_positive"
	}
}

// NonNegativeDecimal flags negative amounts such as prices.
func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = "must_not_be_negative"
	}
}

// RangeDecimal flags values outside [minVal, maxVal].
func RangeDecimal(field string, val, minVal, maxVal decimal.Decimal, v Violations) {
	if val.LessThan(minVal) || val.GreaterThan(maxVal) {
		v[field] = "out_of_range"
	}
}

// MaxLen flags strings longer than n runes.
func MaxLen(field, value string, n int, v Violations) {
	if len([]rune(value)) > n {
		v[field] = "too_long"
	}
}

// OneOf flags values that are not accepted by valid.
func OneOf(field string, ok bool, v Violations) {
	if !ok {
		v[field] = "invalid_choice"
	}
}

// Email flags addresses not shaped like local@domain.tld. Empty values are
// left to Required.
func Email(field, value string, v Violations) {
	value = strings.TrimSpace(value)
	if value != "" && !emailPattern.MatchString(value) {
		v[field] = "invalid_email"
	}
}

// Password requires at least 8 characters with an uppercase letter and a digit.
func Password(field, value string, v Violations) {
	if len([]rune(value)) < 8 {
		v[field] = "password_too_weak"
		return
	}
	var upper, digit bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !digit {
		v[field] = "password_too_weak"
	}
}
