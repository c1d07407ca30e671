// server/internal/store/memstore/memstore.go

// Package memstore holds in-memory implementations of the store interfaces.
// They mirror the mongostore semantics (insert-only upsert, conditional
// updates, sort orders) closely enough for service-level tests.
package memstore

import (
	"fmt"
	"strings"
	"sync"
)

type idGen struct {
	mu   sync.Mutex
	next int
}

func (g *idGen) New(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%06d", prefix, g.next)
}

func matchSearch(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
