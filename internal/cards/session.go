package cards

import (
	"context"
	"errors"
	"sync"

	"github.com/konstantinfoerster/card-printings-go/internal/preferences"
	"github.com/rs/zerolog/log"
)

// Session holds the state of one deck being worked on: the submitted deck list, the resolved printings,
// the selected copies and the view preferences.
type Session struct {
	printings *Collection
	selection *Selection
	resolver  *Resolver
	sets      *Catalog[SetMetadata]
	symbols   *Catalog[Symbol]
	store     preferences.Store

	mu    sync.RWMutex
	deck  DeckList
	prefs Preferences
	err   error
	// cancel stops the running resolution, nil while idle
	cancel context.CancelFunc
}

func NewSession(finder PrintingFinder, sets SetLister, symbols SymbolLister, store preferences.Store) *Session {
	printings := NewCollection()
	selection := NewSelection(NewDeckList())
	setCache := NewSetCache(sets)

	return &Session{
		printings: printings,
		selection: selection,
		resolver:  NewResolver(finder, setCache, printings, selection),
		sets:      setCache,
		symbols:   NewSymbolCache(symbols),
		store:     store,
		deck:      NewDeckList(),
		prefs:     NewPreferences(preferences.DefaultSetTypes...),
	}
}

// SubmitDeckList parses text into the current deck and drops printings, selections and the last error.
// A running resolution is cancelled and its results are discarded.
func (s *Session) SubmitDeckList(text string) DeckList {
	deck := ParseDeckList(text)
	s.replaceDeck(deck)

	return deck
}

func (s *Session) replaceDeck(deck DeckList) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deck = deck
	s.err = nil
	s.printings.Reset()
	s.selection.Reset(deck)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// LoadPrintings warms the metadata catalogs and resolves the printings of the current deck.
// A failed resolution is also available through Err. If the deck is replaced while the
// resolution runs, ErrRunSuperseded is returned and nothing of the run is kept.
func (s *Session) LoadPrintings(ctx context.Context) (ResolveReport, error) {
	if err := Warmup(ctx, s.sets, s.symbols); err != nil {
		log.Warn().Err(err).Msg("metadata incomplete, icons and symbols may be missing")
	}

	s.mu.Lock()
	deck := s.deck
	gen, err := s.resolver.begin(deck)
	if err != nil {
		s.mu.Unlock()

		return ResolveReport{}, err
	}
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancel = cancel
	s.err = nil
	s.mu.Unlock()

	report, err := s.resolver.run(runCtx, deck, gen)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.printings.Generation() != gen {
		return report, ErrRunSuperseded
	}
	s.cancel = nil
	s.err = err

	return report, err
}

// LoadPreferences reads the persisted set type selection. The defaults stay active on failure.
func (s *Session) LoadPreferences(ctx context.Context) error {
	types, err := preferences.SetTypes(ctx, s.store)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.prefs.SetTypes = toSet(types)
	s.mu.Unlock()

	return nil
}

// SetTypes returns the active set types.
func (s *Session) SetTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.prefs.SetTypes))
	for t := range s.prefs.SetTypes {
		types = append(types, t)
	}
	c := newCollator()
	c.SortStrings(types)

	return types
}

// SetSetTypes activates the given set types and persists them. The selection stays active even
// when it could not be stored.
func (s *Session) SetSetTypes(ctx context.Context, types ...string) error {
	s.mu.Lock()
	s.prefs.SetTypes = toSet(types)
	s.mu.Unlock()

	return preferences.SaveSetTypes(ctx, s.store, types)
}

// SelectSets restricts the view to the given set codes, no codes show all sets.
func (s *Session) SelectSets(codes ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.SelectedSets = toSet(codes)
}

func (s *Session) SetSetOrder(o SetOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.SetOrder = o
}

func (s *Session) SetCardOrder(o CardOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.CardOrder = o
}

// Groups returns the printings grouped by set using the current preferences.
// It can be called while a resolution is running.
func (s *Session) Groups() []SetGroup {
	s.mu.RLock()
	prefs := s.prefs.Clone()
	s.mu.RUnlock()

	return GroupBySet(s.printings.Snapshot(), prefs, SetIcons(s.sets))
}

func (s *Session) Printings() []Printing {
	return s.printings.Snapshot()
}

func (s *Session) Deck() DeckList {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.deck
}

func (s *Session) Increment(name string) int {
	return s.selection.Increment(name)
}

func (s *Session) Decrement(name string) int {
	return s.selection.Decrement(name)
}

func (s *Session) Selected(name string) int {
	return s.selection.Selected(name)
}

func (s *Session) Required(name string) int {
	return s.selection.Required(name)
}

func (s *Session) Progress() (selected int, required int) {
	return s.selection.Progress()
}

func (s *Session) IsLoading() bool {
	return s.resolver.Loading()
}

// Err returns the error of the last resolution.
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.err
}

// MetadataErr returns the load errors of the set and symbol catalogs.
func (s *Session) MetadataErr() error {
	return errors.Join(s.sets.Err(), s.symbols.Err())
}

// ClearAll drops the deck, printings, selections, set restriction and the last error.
// A running resolution is cancelled and its results are discarded.
func (s *Session) ClearAll() {
	s.replaceDeck(NewDeckList())

	s.mu.Lock()
	s.prefs.SelectedSets = make(map[string]struct{})
	s.mu.Unlock()
}

func (s *Session) Symbol(symbol string) (Symbol, bool) {
	return s.symbols.Get(symbol)
}

// ManaSymbols resolves every symbol of a mana cost, unknown symbols are returned without icon.
func (s *Session) ManaSymbols(manaCost string) []Symbol {
	parts := SplitManaCost(manaCost)
	out := make([]Symbol, 0, len(parts))
	for _, p := range parts {
		if sym, ok := s.symbols.Get(p); ok {
			out = append(out, sym)

			continue
		}
		out = append(out, Symbol{Symbol: p})
	}

	return out
}
