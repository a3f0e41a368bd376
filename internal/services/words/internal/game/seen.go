package game

import (
	"slices"

	"github.com/SnapScribe/app/internal/services/words/internal/model"
)

// SeenSet holds the names already used as prompts in the current coverage cycle.
type SeenSet map[string]bool

func NewSeenSet(names ...string) SeenSet {
	s := make(SeenSet, len(names))
	for _, n := range names {
		s[n] = true
	}
	return s
}

func (s SeenSet) Has(name string) bool {
	return s[name]
}

func (s SeenSet) Add(name string) {
	s[name] = true
}

func (s SeenSet) Len() int {
	return len(s)
}

// Names returns the seen names in sorted order.
func (s SeenSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Covers reports whether every distinct name in words has been seen.
func (s SeenSet) Covers(words []model.Word) bool {
	if len(words) == 0 {
		return false
	}

	for _, w := range words {
		if !s[w.Name] {
			return false
		}
	}
	return true
}

// Retain drops names that no longer appear in words.
func (s SeenSet) Retain(words []model.Word) {
	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[w.Name] = true
	}

	for n := range s {
		if !present[n] {
			delete(s, n)
		}
	}
}

func distinctNames(words []model.Word) int {
	names := make(map[string]struct{}, len(words))
	for _, w := range words {
		names[w.Name] = struct{}{}
	}
	return len(names)
}
