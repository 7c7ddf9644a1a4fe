package cards

import "sync"

// Selection counts the copies picked per card, bounded by the quantity the deck requires.
type Selection struct {
	mu     sync.Mutex
	deck   DeckList
	counts map[string]int
}

func NewSelection(deck DeckList) *Selection {
	return &Selection{
		deck:   deck,
		counts: make(map[string]int),
	}
}

// Reset drops all counters and binds the selection to deck.
func (s *Selection) Reset(deck DeckList) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deck = deck
	s.counts = make(map[string]int)
}

// Increment adds one copy unless the required quantity is already reached and returns the new count.
func (s *Selection) Increment(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.counts[name]
	if current < s.deck.Required(name) {
		current++
		s.counts[name] = current
	}

	return current
}

// Decrement removes one copy, the count never drops below zero.
func (s *Selection) Decrement(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := max(s.counts[name]-1, 0)
	if current == 0 {
		delete(s.counts, name)
	} else {
		s.counts[name] = current
	}

	return current
}

func (s *Selection) Selected(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counts[name]
}

func (s *Selection) Required(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deck.Required(name)
}

// Progress sums selected and required copies over the whole deck.
func (s *Selection) Progress() (selected int, required int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.deck.entries {
		selected += s.counts[e.Name]
	}

	return selected, s.deck.TotalRequired()
}
