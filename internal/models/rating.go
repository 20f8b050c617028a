package models

import (
	"math"
	"strconv"
	"strings"
)

// StarsFromRate converts an evaluation rate into a 0-5 star rating.
//
// "96.5%" is read as a percentage and scaled to stars rounded to one
// decimal place; a value without "%" is taken as a star rating already.
// Anything unparsable yields 0. Record decoding relies on the 0 default.
func StarsFromRate(rate string) float64 {
	stars, ok := RateStars(rate)
	if !ok {
		return 0
	}
	return stars
}

// RateStars is StarsFromRate for display code that must tell "no rating"
// apart from a zero rating: ok is false when rate holds no number.
func RateStars(rate string) (float64, bool) {
	n, ok := leadingNumber(rate)
	if !ok {
		return 0, false
	}
	if strings.Contains(rate, "%") {
		// percent/20 rounded to one decimal == round(percent/2)/10
		return math.Round(n/2) / 10, true
	}
	return n, true
}

// leadingNumber parses the longest numeric prefix of s after leading
// whitespace, so "96.5% positive" reads as 96.5.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
