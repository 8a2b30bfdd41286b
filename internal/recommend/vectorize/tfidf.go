// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package vectorize

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyVocabulary is returned when no term survives the document
// frequency filter.
var ErrEmptyVocabulary = errors.New("empty vocabulary: no term meets the document frequency threshold")

// sparse is a row-major compressed sparse matrix.
type sparse struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

// row returns the column indices and values of row r.
func (m *sparse) row(r int) ([]int, []float64) {
	lo, hi := m.indptr[r], m.indptr[r+1]
	return m.indices[lo:hi], m.data[lo:hi]
}

// nnz returns the number of stored entries.
func (m *sparse) nnz() int {
	return len(m.data)
}

// transpose returns the column-major view of m as a new row-major matrix.
func (m *sparse) transpose() *sparse {
	t := &sparse{
		rows:    m.cols,
		cols:    m.rows,
		indptr:  make([]int, m.cols+1),
		indices: make([]int, m.nnz()),
		data:    make([]float64, m.nnz()),
	}
	for _, c := range m.indices {
		t.indptr[c+1]++
	}
	for c := 0; c < m.cols; c++ {
		t.indptr[c+1] += t.indptr[c]
	}
	next := make([]int, m.cols)
	copy(next, t.indptr[:m.cols])
	for r := 0; r < m.rows; r++ {
		cols, vals := m.row(r)
		for i, c := range cols {
			p := next[c]
			t.indices[p] = r
			t.data[p] = vals[i]
			next[c]++
		}
	}
	return t
}

// vocabulary selects the terms kept by the TF-IDF model and their document
// frequencies. Terms must appear in at least minDF documents; at most
// maxFeatures terms are kept, preferring higher corpus frequency and then
// lexical order. The returned terms are sorted lexically.
func vocabulary(docTerms []map[string]int, minDF, maxFeatures int) (terms []string, df []int) {
	docFreq := make(map[string]int)
	corpusFreq := make(map[string]int)
	for _, counts := range docTerms {
		for term, n := range counts {
			docFreq[term]++
			corpusFreq[term] += n
		}
	}

	kept := make([]string, 0, len(docFreq))
	for term, n := range docFreq {
		if n >= minDF {
			kept = append(kept, term)
		}
	}
	if maxFeatures > 0 && len(kept) > maxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			fi, fj := corpusFreq[kept[i]], corpusFreq[kept[j]]
			if fi != fj {
				return fi > fj
			}
			return kept[i] < kept[j]
		})
		kept = kept[:maxFeatures]
	}
	sort.Strings(kept)

	df = make([]int, len(kept))
	for i, term := range kept {
		df[i] = docFreq[term]
	}
	return kept, df
}

// tfidf builds the L2-normalized TF-IDF matrix of docs using raw term counts
// and smoothed inverse document frequency ln((1+n)/(1+df))+1.
func tfidf(docs []string, minDF, maxFeatures int) (*sparse, []string, error) {
	docTerms := make([]map[string]int, len(docs))
	for i, doc := range docs {
		counts := make(map[string]int)
		for _, term := range Terms(doc) {
			counts[term]++
		}
		docTerms[i] = counts
	}

	terms, df := vocabulary(docTerms, minDF, maxFeatures)
	if len(terms) == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	column := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for i, term := range terms {
		column[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[i]))) + 1
	}

	m := &sparse{
		rows:   len(docs),
		cols:   len(terms),
		indptr: make([]int, len(docs)+1),
	}
	for r, counts := range docTerms {
		start := len(m.indices)
		for term, count := range counts {
			c, ok := column[term]
			if !ok {
				continue
			}
			m.indices = append(m.indices, c)
			m.data = append(m.data, float64(count)*idf[c])
		}
		sortRow(m.indices[start:], m.data[start:])

		var norm float64
		for _, v := range m.data[start:] {
			norm += v * v
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for i := start; i < len(m.data); i++ {
				m.data[i] /= norm
			}
		}
		m.indptr[r+1] = len(m.indices)
	}
	return m, terms, nil
}

// sortRow orders one row's entries by column so products are deterministic.
func sortRow(cols []int, vals []float64) {
	sort.Sort(rowSorter{cols, vals})
}

type rowSorter struct {
	cols []int
	vals []float64
}

func (s rowSorter) Len() int           { return len(s.cols) }
func (s rowSorter) Less(i, j int) bool { return s.cols[i] < s.cols[j] }
func (s rowSorter) Swap(i, j int) {
	s.cols[i], s.cols[j] = s.cols[j], s.cols[i]
	s.vals[i], s.vals[j] = s.vals[j], s.vals[i]
}
