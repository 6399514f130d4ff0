// pkg/words/words.go

// Package words spells out whole amounts in English using Indian grouping
// (thousand, lakh).
package words

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Limit is the first value that is no longer spelled out. Amounts from one
// crore upwards are returned as plain digits.
const Limit = 10_000_000

var ones = []string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var tens = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// Convert returns the worded form of n, e.g. 150000 -> "one lakh fifty thousand".
// Negative values are prefixed with "minus".
func Convert(n int64) string {
	switch {
	case n == 0:
		return "zero"
	case n == math.MinInt64:
		return "minus " + strconv.FormatInt(n, 10)[1:]
	case n < 0:
		return "minus " + Convert(-n)
	}
	return convert(n)
}

var limit = decimal.NewFromInt(Limit)

// Amount words a decimal amount floored to whole units. Amounts whose
// magnitude reaches Limit come back as their digit string, however large.
func Amount(d decimal.Decimal) string {
	d = d.Floor()
	if d.IsNegative() {
		return "minus " + Amount(d.Neg())
	}
	if d.Cmp(limit) >= 0 {
		return d.String()
	}
	return Convert(d.IntPart())
}

func convert(n int64) string {
	switch {
	case n < 20:
		return ones[n]
	case n < 100:
		return join(tens[n/10], " ", n%10)
	case n < 1000:
		return join(ones[n/100]+" hundred", " and ", n%100)
	case n < 100_000:
		return join(convert(n/1000)+" thousand", " ", n%1000)
	case n < Limit:
		return join(convert(n/100_000)+" lakh", " ", n%100_000)
	}
	return strconv.FormatInt(n, 10)
}

// join appends the worded remainder to head when the remainder is non-zero.
func join(head, sep string, rest int64) string {
	if rest == 0 {
		return head
	}
	return head + sep + convert(rest)
}
