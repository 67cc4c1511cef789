// Package words implements immutable sets of lower case words.
package words

import (
	"sort"
	"strings"
)

// Set is an immutable set of words. Words are normalized to lower case.
// Zero value is an empty set.
type Set struct {
	items map[string]struct{}
}

// New creates a set of given words.
func New(items ...string) Set {
	s := Set{items: make(map[string]struct{}, len(items))}
	for _, item := range items {
		s.items[strings.ToLower(item)] = struct{}{}
	}
	return s
}

// Contains reports whether word (case insensitive) belongs to s.
func (s Set) Contains(word string) bool {
	_, has := s.items[strings.ToLower(word)]
	return has
}

// Len returns the number of words.
func (s Set) Len() int {
	return len(s.items)
}

// Sorted returns set words in ascending order.
func (s Set) Sorted() []string {
	result := make([]string, 0, len(s.items))
	for item := range s.items {
		result = append(result, item)
	}
	sort.Strings(result)
	return result
}

// Union returns words contained in any of s and xs.
func (s Set) Union(xs ...Set) Set {
	result := New(s.Sorted()...)
	for _, x := range xs {
		for item := range x.items {
			result.items[item] = struct{}{}
		}
	}
	return result
}

// Intersect returns words contained in s and in every of xs.
func (s Set) Intersect(xs ...Set) Set {
	result := New()
	for item := range s.items {
		has := true
		for _, x := range xs {
			if !x.Contains(item) {
				has = false
				break
			}
		}
		if has {
			result.items[item] = struct{}{}
		}
	}
	return result
}

// Subtract returns words contained in s but not in x.
func (s Set) Subtract(x Set) Set {
	result := New()
	for item := range s.items {
		if !x.Contains(item) {
			result.items[item] = struct{}{}
		}
	}
	return result
}
