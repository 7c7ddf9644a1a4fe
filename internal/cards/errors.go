package cards

import (
	"errors"
	"fmt"
)

// ErrCardNotFound is reported by a PrintingFinder when the card is unknown to the provider.
var ErrCardNotFound = errors.New("card not found")

// ErrResolveInProgress is returned when a resolution is requested while another one is running.
var ErrResolveInProgress = errors.New("resolve already in progress")

// ErrRunSuperseded is returned by a resolution whose results were dropped by a newer deck list.
var ErrRunSuperseded = errors.New("resolve superseded by a newer deck list")

// FetchError aborts a resolution run. Printings collected before the failure are kept.
type FetchError struct {
	Card string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch printings of card %q, %v", e.Card, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
