package cards

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PrintingFinder returns all paper printings of a card with exactly the given name.
// Unknown cards are reported with an error wrapping ErrCardNotFound.
type PrintingFinder interface {
	FindPrintings(ctx context.Context, name string) ([]Printing, error)
}

type ResolveReport struct {
	RunID    string
	Entries  int
	Resolved int
	Missing  []string
	Added    int
	Duration time.Duration
}

// Resolver looks up the printings of deck entries one after another and merges them into a collection.
type Resolver struct {
	finder    PrintingFinder
	sets      Loader
	printings *Collection
	selection *Selection

	busy    atomic.Bool
	loading atomic.Bool
}

func NewResolver(finder PrintingFinder, sets Loader, printings *Collection, selection *Selection) *Resolver {
	return &Resolver{
		finder:    finder,
		sets:      sets,
		printings: printings,
		selection: selection,
	}
}

// Loading reports whether a resolution is running.
func (r *Resolver) Loading() bool {
	return r.loading.Load()
}

// Resolve replaces the collected printings with the printings of all deck entries.
// Unknown cards are skipped, any other lookup failure stops the run with a *FetchError while
// keeping everything collected so far. A run whose collection is reset by someone else stops
// with ErrRunSuperseded and leaves the collection alone.
func (r *Resolver) Resolve(ctx context.Context, deck DeckList) (ResolveReport, error) {
	gen, err := r.begin(deck)
	if err != nil {
		return ResolveReport{}, err
	}

	return r.run(ctx, deck, gen)
}

// begin claims the resolver and resets the collection and selection for deck.
// The returned generation binds the run to this reset.
func (r *Resolver) begin(deck DeckList) (uint64, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return 0, ErrResolveInProgress
	}
	r.loading.Store(true)

	gen := r.printings.Reset()
	r.selection.Reset(deck)

	return gen, nil
}

func (r *Resolver) run(ctx context.Context, deck DeckList, gen uint64) (ResolveReport, error) {
	defer r.busy.Store(false)
	defer r.loading.Store(false)

	start := time.Now()
	report := ResolveReport{RunID: uuid.NewString(), Entries: deck.Len()}
	logger := log.With().Str("run", report.RunID).Logger()
	superseded := func() (ResolveReport, error) {
		report.Duration = time.Since(start)
		logger.Info().Msg("deck list replaced, dropping run")

		return report, ErrRunSuperseded
	}

	if r.sets != nil {
		if err := r.sets.EnsureLoaded(ctx); err != nil {
			logger.Warn().Err(err).Msg("continue without set metadata")
		}
	}

	logger.Info().Msgf("resolving printings for %d cards", deck.Len())
	for _, entry := range deck.Entries() {
		if r.printings.Generation() != gen {
			return superseded()
		}
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(start)

			return report, &FetchError{Card: entry.Name, Err: err}
		}

		batch, err := r.finder.FindPrintings(ctx, entry.Name)
		if err != nil {
			if r.printings.Generation() != gen {
				return superseded()
			}
			if errors.Is(err, ErrCardNotFound) {
				logger.Warn().Str("card", entry.Name).Msg("card not found, skipping")
				report.Missing = append(report.Missing, entry.Name)

				continue
			}

			report.Duration = time.Since(start)
			fetchErr := &FetchError{Card: entry.Name, Err: err}
			logger.Error().Err(fetchErr).Msgf("resolution aborted, keeping %d printings", r.printings.Len())

			return report, fetchErr
		}

		SortBySetAndNumber(batch)
		added, ok := r.printings.AddFor(gen, batch...)
		if !ok {
			return superseded()
		}
		report.Resolved++
		report.Added += added
		if e := logger.Debug(); e.Enabled() {
			e.Msgf("merged %d of %d printings of %s", added, len(batch), entry.Name)
		}
	}

	report.Duration = time.Since(start)
	logger.Info().Dur("took", report.Duration).
		Msgf("resolved %d/%d cards with %d printings", report.Resolved, report.Entries, report.Added)

	return report, nil
}
