package diagnostic

import (
	"fmt"
	"maps"
	"sync"
)

// Symbols maps source locations to the compiler's names for the
// variables and constraints introduced there. It backs the tooltip
// fallback when no diagnostic covers the hovered position.
type Symbols struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewSymbols creates an empty symbol index.
func NewSymbols() *Symbols {
	return &Symbols{entries: make(map[string]string)}
}

// SymbolKey formats a location key. Line and column are 1-based.
func SymbolKey(file string, line, col int) string {
	return fmt.Sprintf("%s:%d.%d", file, line, col)
}

// Replace swaps in a new index.
func (s *Symbols) Replace(entries map[string]string) {
	cp := maps.Clone(entries)
	if cp == nil {
		cp = make(map[string]string)
	}
	s.mu.Lock()
	s.entries = cp
	s.mu.Unlock()
}

// Lookup returns the name recorded at the location.
func (s *Symbols) Lookup(file string, line, col int) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[SymbolKey(file, line, col)]
	return v, ok
}

// Len returns the number of entries.
func (s *Symbols) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
