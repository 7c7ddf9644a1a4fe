package cards

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SetOrder string

const (
	SetOrderReleaseDate SetOrder = "releaseDate"
	SetOrderCardCount   SetOrder = "cardCount"
)

func ParseSetOrder(v string) (SetOrder, error) {
	switch SetOrder(strings.TrimSpace(v)) {
	case "", SetOrderReleaseDate:
		return SetOrderReleaseDate, nil
	case SetOrderCardCount:
		return SetOrderCardCount, nil
	default:
		return "", fmt.Errorf("unsupported set order %q", v)
	}
}

type CardOrder string

const (
	CardOrderName   CardOrder = "name"
	CardOrderColor  CardOrder = "color"
	CardOrderType   CardOrder = "type"
	CardOrderRarity CardOrder = "rarity"
)

func ParseCardOrder(v string) (CardOrder, error) {
	switch CardOrder(strings.TrimSpace(v)) {
	case "", CardOrderName:
		return CardOrderName, nil
	case CardOrderColor:
		return CardOrderColor, nil
	case CardOrderType:
		return CardOrderType, nil
	case CardOrderRarity:
		return CardOrderRarity, nil
	default:
		return "", fmt.Errorf("unsupported card order %q", v)
	}
}

// colorless and unknown colors share the last bucket
var colorBuckets = map[string]int{"W": 0, "U": 1, "B": 2, "R": 3, "G": 4}

const colorlessBucket = 5

var rarityRanks = map[string]int{"mythic": 0, "rare": 1, "uncommon": 2, "common": 3, "special": 4}

const unknownRarityRank = 5

const releaseDateLayout = time.DateOnly

// Preferences controls filtering and ordering of the set view.
type Preferences struct {
	SetTypes     map[string]struct{}
	SelectedSets map[string]struct{} // empty means all sets
	SetOrder     SetOrder
	CardOrder    CardOrder
}

func NewPreferences(setTypes ...string) Preferences {
	return Preferences{
		SetTypes:     toSet(setTypes),
		SelectedSets: make(map[string]struct{}),
		SetOrder:     SetOrderReleaseDate,
		CardOrder:    CardOrderName,
	}
}

// Clone returns a deep copy.
func (p Preferences) Clone() Preferences {
	return Preferences{
		SetTypes:     cloneSet(p.SetTypes),
		SelectedSets: cloneSet(p.SelectedSets),
		SetOrder:     p.SetOrder,
		CardOrder:    p.CardOrder,
	}
}

func (p Preferences) keep(pr Printing) bool {
	if _, ok := p.SetTypes[pr.SetType]; !ok {
		return false
	}
	if len(p.SelectedSets) == 0 {
		return true
	}
	_, ok := p.SelectedSets[pr.SetCode]

	return ok
}

type SetGroup struct {
	SetName string
	Icon    string
	Cards   []Printing
}

// GroupBySet projects printings into one group per set with one printing per card name.
// The result only depends on its arguments.
func GroupBySet(printings []Printing, prefs Preferences, icons IconLookup) []SetGroup {
	var groups []*SetGroup
	bySet := make(map[string]*SetGroup)
	seen := make(map[string]map[string]struct{})

	for _, p := range printings {
		if !prefs.keep(p) {
			continue
		}

		g, ok := bySet[p.SetName]
		if !ok {
			g = &SetGroup{SetName: p.SetName}
			if icons != nil {
				g.Icon = icons(p.SetCode)
			}
			bySet[p.SetName] = g
			seen[p.SetName] = make(map[string]struct{})
			groups = append(groups, g)
		}

		if _, dup := seen[p.SetName][p.Name]; dup {
			continue
		}
		seen[p.SetName][p.Name] = struct{}{}
		g.Cards = append(g.Cards, p)
	}

	c := newCollator()
	result := make([]SetGroup, 0, len(groups))
	for _, g := range groups {
		sortCards(c, g.Cards, prefs.CardOrder)
		result = append(result, *g)
	}
	sortGroups(c, result, prefs.SetOrder)

	return result
}

func sortCards(c *collate.Collator, cc []Printing, order CardOrder) {
	byName := func(a, b Printing) int {
		return c.CompareString(a.Name, b.Name)
	}

	var cmp func(a, b Printing) int
	switch order {
	case CardOrderColor:
		cmp = func(a, b Printing) int {
			if r := colorBucket(a) - colorBucket(b); r != 0 {
				return r
			}

			return byName(a, b)
		}
	case CardOrderType:
		cmp = func(a, b Printing) int {
			if r := c.CompareString(a.TypeLine, b.TypeLine); r != 0 {
				return r
			}

			return byName(a, b)
		}
	case CardOrderRarity:
		cmp = func(a, b Printing) int {
			if r := rarityRank(a.Rarity) - rarityRank(b.Rarity); r != 0 {
				return r
			}

			return byName(a, b)
		}
	default:
		cmp = byName
	}

	slices.SortStableFunc(cc, cmp)
}

func sortGroups(c *collate.Collator, gg []SetGroup, order SetOrder) {
	switch order {
	case SetOrderCardCount:
		slices.SortStableFunc(gg, func(a, b SetGroup) int {
			if r := len(b.Cards) - len(a.Cards); r != 0 {
				return r
			}

			return c.CompareString(a.SetName, b.SetName)
		})
	default:
		latest := make(map[string]time.Time, len(gg))
		for _, g := range gg {
			latest[g.SetName] = latestRelease(g.Cards)
		}
		slices.SortStableFunc(gg, func(a, b SetGroup) int {
			return latest[b.SetName].Compare(latest[a.SetName])
		})
	}
}

func latestRelease(cc []Printing) time.Time {
	var latest time.Time
	for _, p := range cc {
		t, err := time.Parse(releaseDateLayout, p.ReleaseDate)
		if err != nil {
			continue
		}
		if t.After(latest) {
			latest = t
		}
	}

	return latest
}

func colorBucket(p Printing) int {
	if len(p.ColorIdentity) == 0 {
		return colorlessBucket
	}
	if b, ok := colorBuckets[strings.ToUpper(p.ColorIdentity[0])]; ok {
		return b
	}

	return colorlessBucket
}

func rarityRank(rarity string) int {
	if r, ok := rarityRanks[strings.ToLower(rarity)]; ok {
		return r
	}

	return unknownRarityRank
}

// newCollator returns an english collator, a collator must not be shared between goroutines.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

func toSet(values []string) map[string]struct{} {
	s := make(map[string]struct{}, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}

	return s
}

func cloneSet(s map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}

	return out
}
