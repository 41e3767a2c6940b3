package memstore

import (
	"context"
	"strings"
	"sync"
)

type rule struct {
	pattern  string
	category string
}

type Store struct {
	mu    sync.RWMutex
	rules []rule
}

func New() *Store {
	return &Store{}
}

// FindCategory prefers the longest pattern, then the newest rule.
func (s *Store) FindCategory(_ context.Context, description string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	haystack := strings.ToLower(description)

	var best *rule

	for i := range s.rules {
		r := &s.rules[i]
		if !strings.Contains(haystack, strings.ToLower(r.pattern)) {
			continue
		}

		if best == nil || len(r.pattern) >= len(best.pattern) {
			best = r
		}
	}

	if best == nil {
		return "", nil
	}

	return best.category, nil
}

func (s *Store) CreateRule(_ context.Context, pattern, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = append(s.rules, rule{pattern: pattern, category: category})

	return nil
}
