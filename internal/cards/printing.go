package cards

import (
	"slices"
	"sync"
)

// Printing is one physical version of a card.
type Printing struct {
	SetName         string
	SetCode         string
	Name            string
	ManaCost        string
	ColorIdentity   []string
	TypeLine        string
	Rarity          string
	CollectorNumber string
	SetType         string
	ReleaseDate     string
}

// PrintingKey identifies a printing, two printings with the same key are the same physical card.
type PrintingKey struct {
	SetCode         string
	CollectorNumber string
	Name            string
}

func (p Printing) Key() PrintingKey {
	return PrintingKey{SetCode: p.SetCode, CollectorNumber: p.CollectorNumber, Name: p.Name}
}

// SortBySetAndNumber orders printings by set name and collector number.
func SortBySetAndNumber(pp []Printing) {
	c := newCollator()
	slices.SortStableFunc(pp, func(a, b Printing) int {
		if r := c.CompareString(a.SetName, b.SetName); r != 0 {
			return r
		}

		return c.CompareString(a.CollectorNumber, b.CollectorNumber)
	})
}

// Collection accumulates unique printings. It is safe for concurrent use.
// Every Reset starts a new generation, writers bound to an older generation are ignored.
type Collection struct {
	mu         sync.RWMutex
	printings  []Printing
	keys       map[PrintingKey]struct{}
	generation uint64
}

func NewCollection() *Collection {
	return &Collection{keys: make(map[PrintingKey]struct{})}
}

// Add appends all printings whose key is not yet present and returns the number of added entries.
func (c *Collection) Add(pp ...Printing) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.add(pp)
}

// AddFor adds like Add as long as the collection is still at generation gen.
// It returns false without adding anything once the collection has been reset.
func (c *Collection) AddFor(gen uint64, pp ...Printing) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		return 0, false
	}

	return c.add(pp), true
}

func (c *Collection) add(pp []Printing) int {
	added := 0
	for _, p := range pp {
		k := p.Key()
		if _, ok := c.keys[k]; ok {
			continue
		}
		c.keys[k] = struct{}{}
		c.printings = append(c.printings, p)
		added++
	}

	return added
}

// Snapshot returns a copy of the current printings in insertion order.
func (c *Collection) Snapshot() []Printing {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.printings)
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.printings)
}

// Reset drops all printings and returns the new generation.
func (c *Collection) Reset() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.printings = nil
	c.keys = make(map[PrintingKey]struct{})
	c.generation++

	return c.generation
}

func (c *Collection) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.generation
}
