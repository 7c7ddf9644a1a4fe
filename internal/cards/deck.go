package cards

import (
	"regexp"
	"strconv"
	"strings"
)

const commentMarker = "//"

// quantity prefix is optional, e.g. "4 Lightning Bolt", "4x Lightning Bolt" or "Lightning Bolt"
var deckLineRegex = regexp.MustCompile(`^(?:(\d+)[xX]?\s+)?(.+)$`)

var basicLands = []string{"Plains", "Island", "Swamp", "Mountain", "Forest", "Wastes"}

type DeckEntry struct {
	Name     string
	Quantity int
}

// DeckList keeps entries in the order of their first appearance.
// Adding a name twice replaces the quantity of the existing entry.
type DeckList struct {
	entries []DeckEntry
	index   map[string]int
}

func NewDeckList(entries ...DeckEntry) DeckList {
	d := DeckList{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		d.set(e)
	}

	return d
}

func (d *DeckList) set(e DeckEntry) {
	if d.index == nil {
		d.index = make(map[string]int)
	}

	if pos, ok := d.index[e.Name]; ok {
		d.entries[pos].Quantity = e.Quantity

		return
	}

	d.index[e.Name] = len(d.entries)
	d.entries = append(d.entries, e)
}

// Entries returns a copy of all entries in deck order.
func (d DeckList) Entries() []DeckEntry {
	out := make([]DeckEntry, len(d.entries))
	copy(out, d.entries)

	return out
}

// Required returns the quantity of the named card or 0 if it is not part of the deck.
func (d DeckList) Required(name string) int {
	pos, ok := d.index[name]
	if !ok {
		return 0
	}

	return d.entries[pos].Quantity
}

func (d DeckList) Len() int {
	return len(d.entries)
}

func (d DeckList) TotalRequired() int {
	total := 0
	for _, e := range d.entries {
		total += e.Quantity
	}

	return total
}

// ParseDeckList converts free text into deck entries. Blank lines, comments and basic lands are skipped,
// lines without a quantity count as one copy.
func ParseDeckList(text string) DeckList {
	deck := NewDeckList()

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}

		entry, ok := parseDeckLine(line)
		if !ok || isBasicLand(entry.Name) {
			continue
		}

		deck.set(entry)
	}

	return deck
}

func parseDeckLine(line string) (DeckEntry, bool) {
	match := deckLineRegex.FindStringSubmatch(line)
	if match == nil {
		return DeckEntry{}, false
	}

	quantity := 1
	if match[1] != "" {
		q, err := strconv.Atoi(match[1])
		if err != nil || q < 1 {
			return DeckEntry{}, false
		}
		quantity = q
	}

	name := strings.TrimSpace(match[2])
	if name == "" {
		return DeckEntry{}, false
	}

	return DeckEntry{Name: name, Quantity: quantity}, true
}

func isBasicLand(name string) bool {
	for _, land := range basicLands {
		if strings.EqualFold(land, name) {
			return true
		}
	}

	return false
}
