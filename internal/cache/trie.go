// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package cache

import (
	"sort"
	"strings"
)

// TitleMatch is one title found by prefix.
type TitleMatch struct {
	Title    string
	Position int
	Rank     float64
}

type titleNode struct {
	children map[rune]*titleNode
	// entries are the titles whose normalized key ends here.
	entries []TitleMatch
}

// TitleTrie is a case-insensitive prefix tree over catalog titles.
// Build it with Insert, then query it concurrently with Complete; it is not
// safe to Insert while other goroutines read.
//
// Titles are indexed both whole and from the start of every later word, so
// "hollow" finds "Hollow Knight" and "knight" finds it as well.
type TitleTrie struct {
	root *titleNode
	size int
}

// NewTitleTrie creates an empty TitleTrie.
func NewTitleTrie() *TitleTrie {
	return &TitleTrie{root: newTitleNode()}
}

func newTitleNode() *titleNode {
	return &titleNode{children: make(map[rune]*titleNode)}
}

// Insert adds a title with its catalog position and ranking weight.
func (t *TitleTrie) Insert(title string, position int, rank float64) {
	key := strings.ToLower(strings.TrimSpace(title))
	if key == "" {
		return
	}
	m := TitleMatch{Title: title, Position: position, Rank: rank}
	t.insertKey(key, m)
	for i := 1; i < len(key); i++ {
		if key[i-1] == ' ' && key[i] != ' ' {
			t.insertKey(key[i:], m)
		}
	}
	t.size++
}

func (t *TitleTrie) insertKey(key string, m TitleMatch) {
	node := t.root
	for _, ch := range key {
		child := node.children[ch]
		if child == nil {
			child = newTitleNode()
			node.children[ch] = child
		}
		node = child
	}
	node.entries = append(node.entries, m)
}

// Size returns the number of inserted titles.
func (t *TitleTrie) Size() int {
	return t.size
}

// Complete returns up to limit titles with a word starting with prefix.
// Results are sorted by rank (descending), then title, then position, and
// each position appears once.
func (t *TitleTrie) Complete(prefix string, limit int) []TitleMatch {
	key := strings.ToLower(strings.TrimSpace(prefix))
	if key == "" || limit <= 0 {
		return nil
	}

	node := t.root
	for _, ch := range key {
		node = node.children[ch]
		if node == nil {
			return nil
		}
	}

	seen := make(map[int]struct{})
	var results []TitleMatch
	collectTitles(node, seen, &results)

	sort.Slice(results, func(i, j int) bool {
		if results[i].Rank != results[j].Rank {
			return results[i].Rank > results[j].Rank
		}
		if results[i].Title != results[j].Title {
			return results[i].Title < results[j].Title
		}
		return results[i].Position < results[j].Position
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// collectTitles gathers all entries under node.
func collectTitles(node *titleNode, seen map[int]struct{}, results *[]TitleMatch) {
	for _, m := range node.entries {
		if _, dup := seen[m.Position]; dup {
			continue
		}
		seen[m.Position] = struct{}{}
		*results = append(*results, m)
	}
	for _, child := range node.children {
		collectTitles(child, seen, results)
	}
}
