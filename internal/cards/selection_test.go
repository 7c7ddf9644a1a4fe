package cards_test

import (
	"sync"
	"testing"

	"github.com/konstantinfoerster/card-printings-go/internal/cards"
	"github.com/stretchr/testify/assert"
)

func TestSelection_IncrementIsBoundedByRequired(t *testing.T) {
	s := cards.NewSelection(cards.ParseDeckList("3 Lightning Bolt"))

	var last int
	for range 5 {
		last = s.Increment("Lightning Bolt")
	}

	assert.Equal(t, 3, last)
	assert.Equal(t, 3, s.Selected("Lightning Bolt"))
	assert.Equal(t, 3, s.Required("Lightning Bolt"))
}

func TestSelection_DecrementStopsAtZero(t *testing.T) {
	s := cards.NewSelection(cards.ParseDeckList("2 Opt"))
	s.Increment("Opt")

	assert.Equal(t, 0, s.Decrement("Opt"))
	assert.Equal(t, 0, s.Decrement("Opt"))
	assert.Equal(t, 0, s.Selected("Opt"))
}

func TestSelection_UnknownCard(t *testing.T) {
	s := cards.NewSelection(cards.ParseDeckList("2 Opt"))

	assert.Equal(t, 0, s.Increment("Shock"))
	assert.Equal(t, 0, s.Decrement("Shock"))
	assert.Equal(t, 0, s.Required("Shock"))
}

func TestSelection_Reset(t *testing.T) {
	s := cards.NewSelection(cards.ParseDeckList("2 Opt"))
	s.Increment("Opt")

	s.Reset(cards.ParseDeckList("1 Shock"))

	assert.Equal(t, 0, s.Selected("Opt"))
	assert.Equal(t, 0, s.Required("Opt"))
	assert.Equal(t, 1, s.Increment("Shock"))
}

func TestSelection_Progress(t *testing.T) {
	s := cards.NewSelection(cards.ParseDeckList("4 Lightning Bolt\n2 Opt"))
	s.Increment("Lightning Bolt")
	s.Increment("Opt")
	s.Increment("Opt")
	s.Increment("Opt")

	selected, required := s.Progress()

	assert.Equal(t, 3, selected)
	assert.Equal(t, 6, required)
}

func TestSelection_ConcurrentIncrement(t *testing.T) {
	s := cards.NewSelection(cards.ParseDeckList("4 Lightning Bolt"))

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Increment("Lightning Bolt")
		}()
	}
	wg.Wait()

	assert.Equal(t, 4, s.Selected("Lightning Bolt"))
}
