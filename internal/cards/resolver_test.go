package cards_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/konstantinfoerster/card-printings-go/internal/cards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverFixture struct {
	finder    *fakeFinder
	sets      *fakeSetLister
	printings *cards.Collection
	selection *cards.Selection
	resolver  *cards.Resolver
}

func newResolverFixture(finder *fakeFinder) *resolverFixture {
	f := &resolverFixture{
		finder:    finder,
		sets:      &fakeSetLister{sets: []cards.SetMetadata{{Code: "lea"}}},
		printings: cards.NewCollection(),
		selection: cards.NewSelection(cards.NewDeckList()),
	}
	f.resolver = cards.NewResolver(finder, cards.NewSetCache(f.sets), f.printings, f.selection)

	return f
}

func TestResolve(t *testing.T) {
	shockM10 := printing("Magic 2010", "m10", "146", "Shock")
	shockLea := printing("Alpha", "lea", "170", "Shock")
	opt := printing("Ixalan", "xln", "65", "Opt")
	f := newResolverFixture(newFakeFinder().
		with("Shock", shockM10, shockLea).
		with("Opt", opt))

	report, err := f.resolver.Resolve(t.Context(), cards.ParseDeckList("4 Shock\n2 Opt"))

	require.NoError(t, err)
	assert.Equal(t, []cards.Printing{shockLea, shockM10, opt}, f.printings.Snapshot())
	assert.Equal(t, []string{"Shock", "Opt"}, f.finder.Calls())
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 2, report.Entries)
	assert.Equal(t, 2, report.Resolved)
	assert.Equal(t, 3, report.Added)
	assert.Empty(t, report.Missing)
	assert.Equal(t, int32(1), f.sets.calls.Load())
	assert.False(t, f.resolver.Loading())
}

func TestResolve_SkipsUnknownCards(t *testing.T) {
	opt := printing("Ixalan", "xln", "65", "Opt")
	f := newResolverFixture(newFakeFinder().with("Opt", opt))

	report, err := f.resolver.Resolve(t.Context(), cards.ParseDeckList("1 Not A Card\n1 Opt"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Not A Card", "Opt"}, f.finder.Calls())
	assert.Equal(t, []string{"Not A Card"}, report.Missing)
	assert.Equal(t, []cards.Printing{opt}, f.printings.Snapshot())
}

func TestResolve_AbortKeepsCollectedPrintings(t *testing.T) {
	opt := printing("Ixalan", "xln", "65", "Opt")
	boom := errors.New("connection reset")
	f := newResolverFixture(newFakeFinder().
		with("Opt", opt).
		failing("Shock", boom).
		with("Ponder", printing("Lorwyn", "lrw", "79", "Ponder")))

	report, err := f.resolver.Resolve(t.Context(), cards.ParseDeckList("1 Opt\n1 Shock\n1 Ponder"))

	require.Error(t, err)
	var fetchErr *cards.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "Shock", fetchErr.Card)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"Opt", "Shock"}, f.finder.Calls())
	assert.Equal(t, []cards.Printing{opt}, f.printings.Snapshot())
	assert.Equal(t, 1, report.Resolved)
	assert.False(t, f.resolver.Loading())
}

func TestResolve_NotFoundWrappedTwiceIsStillSkipped(t *testing.T) {
	f := newResolverFixture(newFakeFinder().
		failing("Opt", fmt.Errorf("lookup failed, %w", fmt.Errorf("status 404, %w", cards.ErrCardNotFound))))

	report, err := f.resolver.Resolve(t.Context(), cards.ParseDeckList("1 Opt"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Opt"}, report.Missing)
}

func TestResolve_ContinuesWithoutSetMetadata(t *testing.T) {
	opt := printing("Ixalan", "xln", "65", "Opt")
	f := newResolverFixture(newFakeFinder().with("Opt", opt))
	f.sets.err = errors.New("sets unavailable")

	_, err := f.resolver.Resolve(t.Context(), cards.ParseDeckList("1 Opt"))

	require.NoError(t, err)
	assert.Equal(t, []cards.Printing{opt}, f.printings.Snapshot())
}

func TestResolve_ResetsPreviousRun(t *testing.T) {
	f := newResolverFixture(newFakeFinder().
		with("Opt", printing("Ixalan", "xln", "65", "Opt")).
		with("Shock", printing("Alpha", "lea", "170", "Shock")))
	_, err := f.resolver.Resolve(t.Context(), cards.ParseDeckList("1 Opt"))
	require.NoError(t, err)
	f.selection.Increment("Opt")

	_, err = f.resolver.Resolve(t.Context(), cards.ParseDeckList("2 Shock"))

	require.NoError(t, err)
	assert.Equal(t, 1, f.printings.Len())
	assert.Equal(t, "Shock", f.printings.Snapshot()[0].Name)
	assert.Equal(t, 0, f.selection.Selected("Opt"))
	assert.Equal(t, 2, f.selection.Required("Shock"))
}

func TestResolve_CancelledContext(t *testing.T) {
	f := newResolverFixture(newFakeFinder().with("Opt", printing("Ixalan", "xln", "65", "Opt")))
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := f.resolver.Resolve(ctx, cards.ParseDeckList("1 Opt"))

	var fetchErr *cards.FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.finder.Calls())
}

func TestResolve_RejectsConcurrentRun(t *testing.T) {
	finder := newFakeFinder().with("Opt", printing("Ixalan", "xln", "65", "Opt"))
	entered, release := finder.blockOn("Opt")
	f := newResolverFixture(finder)

	done := make(chan error, 1)
	go func() {
		_, err := f.resolver.Resolve(t.Context(), cards.ParseDeckList("1 Opt"))
		done <- err
	}()
	<-entered

	assert.True(t, f.resolver.Loading())
	_, err := f.resolver.Resolve(t.Context(), cards.ParseDeckList("1 Shock"))
	require.ErrorIs(t, err, cards.ErrResolveInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, f.resolver.Loading())
	assert.Equal(t, []string{"Opt"}, finder.Calls())
}

func TestResolve_StopsWhenCollectionIsReset(t *testing.T) {
	finder := newFakeFinder().
		with("Opt", printing("Ixalan", "xln", "65", "Opt")).
		with("Shock", printing("Alpha", "lea", "170", "Shock"))
	entered, release := finder.blockOn("Opt")
	f := newResolverFixture(finder)

	done := make(chan error, 1)
	go func() {
		_, err := f.resolver.Resolve(t.Context(), cards.ParseDeckList("1 Opt\n1 Shock"))
		done <- err
	}()
	<-entered
	f.printings.Reset()
	close(release)

	require.ErrorIs(t, <-done, cards.ErrRunSuperseded)
	assert.Equal(t, 0, f.printings.Len())
	assert.Equal(t, []string{"Opt"}, finder.Calls())
	assert.False(t, f.resolver.Loading())
}

func TestResolve_EmptyDeck(t *testing.T) {
	f := newResolverFixture(newFakeFinder())

	report, err := f.resolver.Resolve(t.Context(), cards.NewDeckList())

	require.NoError(t, err)
	assert.Equal(t, 0, report.Entries)
	assert.Equal(t, 0, f.printings.Len())
}
