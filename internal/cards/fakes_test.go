package cards_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/konstantinfoerster/card-printings-go/internal/cards"
)

type fakeFinder struct {
	mu        sync.Mutex
	printings map[string][]cards.Printing
	errs      map[string]error
	calls     []string
	// block is called before every lookup when set
	block func(ctx context.Context, name string)
}

func newFakeFinder() *fakeFinder {
	return &fakeFinder{
		printings: make(map[string][]cards.Printing),
		errs:      make(map[string]error),
	}
}

func (f *fakeFinder) with(name string, pp ...cards.Printing) *fakeFinder {
	f.printings[name] = pp

	return f
}

func (f *fakeFinder) failing(name string, err error) *fakeFinder {
	f.errs[name] = err

	return f
}

func (f *fakeFinder) FindPrintings(ctx context.Context, name string) ([]cards.Printing, error) {
	if f.block != nil {
		f.block(ctx, name)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, name)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	pp, ok := f.printings[name]
	if !ok {
		return nil, fmt.Errorf("no printings for %s, %w", name, cards.ErrCardNotFound)
	}

	// hand out a copy, the resolver sorts the batch in place
	return append([]cards.Printing(nil), pp...), nil
}

func (f *fakeFinder) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

type fakeSetLister struct {
	sets  []cards.SetMetadata
	err   error
	calls atomic.Int32
	// release blocks the listing until it is closed when set
	release chan struct{}
}

func (f *fakeSetLister) ListSets(ctx context.Context) ([]cards.SetMetadata, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}

	return f.sets, nil
}

type fakeSymbolLister struct {
	symbols []cards.Symbol
	err     error
	calls   atomic.Int32
}

func (f *fakeSymbolLister) ListSymbols(_ context.Context) ([]cards.Symbol, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}

	return f.symbols, nil
}

func printing(setName, setCode, number, name string) cards.Printing {
	return cards.Printing{
		SetName:         setName,
		SetCode:         setCode,
		Name:            name,
		CollectorNumber: number,
		SetType:         "expansion",
		Rarity:          "common",
	}
}

// blockOn stops the lookup of name until release is closed or the lookup is cancelled.
// entered is closed once the lookup is waiting.
func (f *fakeFinder) blockOn(name string) (entered chan struct{}, release chan struct{}) {
	entered = make(chan struct{})
	release = make(chan struct{})
	var once sync.Once
	f.block = func(ctx context.Context, n string) {
		if n != name {
			return
		}
		once.Do(func() { close(entered) })
		select {
		case <-release:
		case <-ctx.Done():
		}
	}

	return entered, release
}
