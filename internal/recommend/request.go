// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ParseSeeds splits a "A+B+C" query into trimmed, non-empty seed names.
func ParseSeeds(query string) []string {
	parts := strings.Split(query, "+")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitList splits a comma-delimited parameter into trimmed, non-empty terms.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// RawFilters are filter values as received from a client.
type RawFilters struct {
	Genres      string
	Exclude     string
	YearMin     string
	YearMax     string
	PlaytimeMin string
	PlaytimeMax string
}

// ParseFilters converts raw filter values. Malformed numeric values are
// ignored; the returned error wraps ErrInvalidFilter and names them, while
// the returned Filters remain usable.
func ParseFilters(raw RawFilters) (Filters, error) {
	f := Filters{
		Genres:  SplitList(raw.Genres),
		Exclude: SplitList(raw.Exclude),
	}

	var errs []error
	parseInt := func(name, v string) *int {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, name, v))
			return nil
		}
		return &n
	}
	parseFloat := func(name, v string) *float64 {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) {
			errs = append(errs, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, name, v))
			return nil
		}
		return &n
	}

	f.YearMin = parseInt("year_min", raw.YearMin)
	f.YearMax = parseInt("year_max", raw.YearMax)
	f.PlaytimeMin = parseFloat("playtime_min", raw.PlaytimeMin)
	f.PlaytimeMax = parseFloat("playtime_max", raw.PlaytimeMax)

	return f, errors.Join(errs...)
}

// canonicalSeeds lower-cases, trims, de-duplicates, and sorts seed names.
// Seed order does not affect results.
func canonicalSeeds(seeds []string) []string {
	seen := make(map[string]struct{}, len(seeds))
	out := make([]string, 0, len(seeds))
	for _, s := range seeds {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// canonicalTerms lower-cases, trims, de-duplicates, and sorts filter terms.
func canonicalTerms(terms []string) []string {
	return canonicalSeeds(terms)
}

// cacheKey builds the memoization key from canonical seeds, n, and filters.
func cacheKey(seeds []string, n int, f *Filters) string {
	var b strings.Builder
	b.WriteString(strings.Join(seeds, "|"))
	b.WriteString("#n=")
	b.WriteString(strconv.Itoa(n))
	b.WriteString("#g=")
	b.WriteString(strings.Join(f.Genres, ","))
	b.WriteString("#x=")
	b.WriteString(strings.Join(f.Exclude, ","))
	writeInt := func(tag string, v *int) {
		b.WriteString(tag)
		if v != nil {
			b.WriteString(strconv.Itoa(*v))
		}
	}
	writeFloat := func(tag string, v *float64) {
		b.WriteString(tag)
		if v != nil {
			b.WriteString(strconv.FormatFloat(*v, 'g', -1, 64))
		}
	}
	writeInt("#ymin=", f.YearMin)
	writeInt("#ymax=", f.YearMax)
	writeFloat("#pmin=", f.PlaytimeMin)
	writeFloat("#pmax=", f.PlaytimeMax)
	return b.String()
}

// genreMatcher tests candidate genres against filter terms: a candidate
// passes if any term equals a genre or occurs in one on word boundaries.
type genreMatcher struct {
	terms    []string
	patterns []*regexp.Regexp
}

func newGenreMatcher(terms []string) *genreMatcher {
	if len(terms) == 0 {
		return nil
	}
	m := &genreMatcher{
		terms:    terms,
		patterns: make([]*regexp.Regexp, len(terms)),
	}
	for i, t := range terms {
		m.patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(t) + `\b`)
	}
	return m
}

func (m *genreMatcher) match(genres []string) bool {
	if m == nil {
		return true
	}
	if len(genres) == 0 {
		return false
	}
	lower := make([]string, len(genres))
	for i, g := range genres {
		lower[i] = strings.ToLower(g)
	}
	for i, term := range m.terms {
		for _, g := range lower {
			if g == term {
				return true
			}
		}
		for _, g := range lower {
			if m.patterns[i].MatchString(g) {
				return true
			}
		}
	}
	return false
}

// passesRange applies the year and playtime filters. A record without a
// numeric year skips the year check.
func passesRange(rec *CatalogRecord, f *Filters) bool {
	if f.YearMin != nil || f.YearMax != nil {
		if year, ok := rec.Year(); ok {
			if f.YearMin != nil && year < *f.YearMin {
				return false
			}
			if f.YearMax != nil && year > *f.YearMax {
				return false
			}
		}
	}
	hours := rec.PlaytimeHours()
	if f.PlaytimeMin != nil && hours < *f.PlaytimeMin {
		return false
	}
	if f.PlaytimeMax != nil && hours > *f.PlaytimeMax {
		return false
	}
	return true
}
