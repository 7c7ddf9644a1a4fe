package cards

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

type SetMetadata struct {
	Code        string
	Name        string
	IconURL     string
	ReleaseDate string
}

// Symbol is a card symbol like {R} or {T} with its rendered icon.
type Symbol struct {
	Symbol         string
	SVGURI         string
	English        string
	RepresentsMana bool
}

type SetLister interface {
	ListSets(ctx context.Context) ([]SetMetadata, error)
}

type SymbolLister interface {
	ListSymbols(ctx context.Context) ([]Symbol, error)
}

type Loader interface {
	EnsureLoaded(ctx context.Context) error
}

// Catalog is loaded once per process and read-only afterwards.
// A failed load is recorded and not retried, the catalog stays empty.
type Catalog[T any] struct {
	name  string
	load  func(ctx context.Context) ([]T, error)
	keyFn func(T) string

	group   singleflight.Group
	started atomic.Bool
	done    atomic.Bool

	mu      sync.RWMutex
	entries map[string]T
	err     error
}

func NewCatalog[T any](name string, load func(ctx context.Context) ([]T, error), keyFn func(T) string) *Catalog[T] {
	return &Catalog[T]{
		name:    name,
		load:    load,
		keyFn:   keyFn,
		entries: make(map[string]T),
	}
}

func NewSetCache(l SetLister) *Catalog[SetMetadata] {
	return NewCatalog("sets", l.ListSets, func(s SetMetadata) string { return s.Code })
}

func NewSymbolCache(l SymbolLister) *Catalog[Symbol] {
	return NewCatalog("symbols", l.ListSymbols, func(s Symbol) string { return s.Symbol })
}

// EnsureLoaded fetches the catalog on the first call. Concurrent callers wait for the running fetch,
// later callers return immediately with the recorded load error.
func (c *Catalog[T]) EnsureLoaded(ctx context.Context) error {
	if c.done.Load() {
		return c.Err()
	}

	_, err, _ := c.group.Do(c.name, func() (any, error) {
		if !c.started.CompareAndSwap(false, true) {
			return nil, c.Err()
		}
		defer c.done.Store(true)

		return nil, c.fill(ctx)
	})

	return err
}

func (c *Catalog[T]) fill(ctx context.Context) error {
	values, err := c.load(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load %s catalog, %w", c.name, err)
		log.Error().Err(err).Msgf("%s catalog stays empty", c.name)

		c.mu.Lock()
		c.err = err
		c.mu.Unlock()

		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, v := range values {
		c.entries[c.keyFn(v)] = v
	}
	log.Debug().Msgf("loaded %d entries into %s catalog", len(c.entries), c.name)

	return nil
}

func (c *Catalog[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]

	return v, ok
}

func (c *Catalog[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Err returns the error of the last load, if any.
func (c *Catalog[T]) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.err
}

// Warmup loads all catalogs concurrently and returns the joined load errors.
func Warmup(ctx context.Context, loaders ...Loader) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, l := range loaders {
		g.Go(func() error {
			if err := l.EnsureLoaded(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}

			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// IconLookup returns the icon url of a set or an empty string.
type IconLookup func(setCode string) string

func SetIcons(sets *Catalog[SetMetadata]) IconLookup {
	return func(setCode string) string {
		if s, ok := sets.Get(setCode); ok {
			return s.IconURL
		}

		return ""
	}
}

var (
	manaSymbolRegex = regexp.MustCompile(`\{[^{}]+\}`)
	splitCardRegex  = regexp.MustCompile(`\s*//\s*`)
)

// SplitManaCost splits a mana cost like "{2}{R}{R}" into its symbols.
// Split cards are separated by " // " and keep that separator as their own element.
func SplitManaCost(manaCost string) []string {
	var out []string
	for i, half := range splitCardRegex.Split(manaCost, -1) {
		if i > 0 {
			out = append(out, "//")
		}
		out = append(out, manaSymbolRegex.FindAllString(half, -1)...)
	}

	return out
}
