// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package resolver

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC normalization, lower-cases, trims, and collapses
// runs of whitespace to a single space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFKC.String(s))), " ")
}

// Clean returns the comparison key of a name: NFKC-normalized, lower-cased,
// with every rune that is not a letter, digit, or underscore removed.
//
//	Clean("The Witcher® 3: Wild Hunt") == "thewitcher3wildhunt"
func Clean(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, strings.ToLower(norm.NFKC.String(s)))
}
