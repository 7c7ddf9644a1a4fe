package preferences_test

import (
	"context"
	"errors"
	"testing"

	"github.com/konstantinfoerster/card-printings-go/internal/preferences"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("unavailable")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("unavailable")
}

func TestSetTypes_Default(t *testing.T) {
	store := preferences.NewMemoryStore()

	types, err := preferences.SetTypes(t.Context(), store)

	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSetTypes, types)
	assert.Len(t, types, 15)
}

func TestSetTypes_DefaultIsACopy(t *testing.T) {
	types, err := preferences.SetTypes(t.Context(), preferences.NewMemoryStore())
	require.NoError(t, err)

	types[0] = "changed"

	assert.Equal(t, "expansion", preferences.DefaultSetTypes[0])
}

func TestSaveSetTypes(t *testing.T) {
	cases := []struct {
		name  string
		types []string
		want  []string
	}{
		{
			name:  "some types",
			types: []string{"expansion", "masters"},
			want:  []string{"expansion", "masters"},
		},
		{
			name:  "empty selection is kept",
			types: []string{},
			want:  []string{},
		},
		{
			name:  "nil selection is stored as empty",
			types: nil,
			want:  []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := preferences.NewMemoryStore()

			require.NoError(t, preferences.SaveSetTypes(t.Context(), store, tc.types))
			types, err := preferences.SetTypes(t.Context(), store)

			require.NoError(t, err)
			assert.Equal(t, tc.want, types)
		})
	}
}

func TestSetTypes_InvalidValue(t *testing.T) {
	store := preferences.NewMemoryStore()
	require.NoError(t, store.Set(t.Context(), preferences.KeySetTypes, "expansion"))

	_, err := preferences.SetTypes(t.Context(), store)

	require.Error(t, err)
}

func TestSetTypes_StoreFailure(t *testing.T) {
	_, err := preferences.SetTypes(t.Context(), failingStore{})
	require.Error(t, err)

	err = preferences.SaveSetTypes(t.Context(), failingStore{}, []string{"core"})
	require.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := preferences.NewMemoryStore()

	_, ok, err := store.Get(t.Context(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(t.Context(), "key", "first"))
	require.NoError(t, store.Set(t.Context(), "key", "second"))
	v, ok, err := store.Get(t.Context(), "key")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", v)
}
