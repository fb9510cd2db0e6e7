// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts as the expense
// API serializes them and for rendering them in the dashboard's locale.
package core

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// amountPrinter renders amounts with German grouping and decimal marks.
var amountPrinter = message.NewPrinter(language.German)

// ParseAmount converts a decimal string to cents with half-up rounding.
//
// The expense API sends amounts either as JSON numbers or numeric strings,
// so the input is the raw decimal text in both cases. Only a dot is accepted
// as decimal separator. Zero is a valid amount; negative, exponent and
// otherwise non-decimal forms are rejected.
//
// Examples:
//
//	ParseAmount("1234.5")  -> 123450, nil
//	ParseAmount("12.345")  -> 1235, nil (half-up)
//	ParseAmount("0")       -> 0, nil
//	ParseAmount("-1")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	s = strings.TrimPrefix(s, "+")
	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") || (intPart == "" && fracPart == "") {
		return Money{}, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	if iv > (math.MaxInt64-fracCents)/100 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: iv*100 + fracCents}, nil
}

// Value returns the amount as a float64 for display purposes only.
func (m Money) Value() float64 {
	return float64(m.Cents) / 100.0
}

// Format renders the amount with exactly two fraction digits in de-DE
// notation, e.g. 1234.5 -> "1.234,50".
func (m Money) Format() string {
	return amountPrinter.Sprintf("%.2f", m.Value())
}
