package preferences

import (
	"context"
	"encoding/json"
	"fmt"
)

const KeySetTypes = "selectedSetTypes"

// DefaultSetTypes is used while no set type selection has been stored.
var DefaultSetTypes = []string{
	"expansion", "core", "commander", "duel_deck", "starter", "planechase", "premium_deck",
	"from_the_vault", "masters", "memorabilia", "box", "spellbook", "alchemy", "archenemy",
	"draft_innovation",
}

// Store is a persistent key value store for user preferences.
type Store interface {
	// Get returns the stored value and false if the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// SetTypes returns the stored set type selection or DefaultSetTypes.
func SetTypes(ctx context.Context, s Store) ([]string, error) {
	raw, ok, err := s.Get(ctx, KeySetTypes)
	if err != nil {
		return nil, fmt.Errorf("failed to read preference %s, %w", KeySetTypes, err)
	}
	if !ok {
		return append([]string(nil), DefaultSetTypes...), nil
	}

	var types []string
	if err := json.Unmarshal([]byte(raw), &types); err != nil {
		return nil, fmt.Errorf("failed to decode preference %s, %w", KeySetTypes, err)
	}

	return types, nil
}

func SaveSetTypes(ctx context.Context, s Store, types []string) error {
	if types == nil {
		types = []string{}
	}

	raw, err := json.Marshal(types)
	if err != nil {
		return fmt.Errorf("failed to encode preference %s, %w", KeySetTypes, err)
	}

	if err := s.Set(ctx, KeySetTypes, string(raw)); err != nil {
		return fmt.Errorf("failed to store preference %s, %w", KeySetTypes, err)
	}

	return nil
}
