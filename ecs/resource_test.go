package ecs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	MaxPlayers int
}

func TestSetGetResource(t *testing.T) {
	w := NewWorld()

	_, ok := GetResource[testConfig](w)
	require.False(t, ok)

	SetResource(w, testConfig{MaxPlayers: 4})
	cfg, ok := GetResource[testConfig](w)
	require.True(t, ok)
	require.Equal(t, 4, cfg.MaxPlayers)
}

func TestSetResourceReplacesExisting(t *testing.T) {
	w := NewWorld()
	SetResource(w, testConfig{MaxPlayers: 4})
	SetResource(w, testConfig{MaxPlayers: 8})

	cfg, ok := GetResource[testConfig](w)
	require.True(t, ok)
	require.Equal(t, 8, cfg.MaxPlayers)
}

func TestMustResourcePanicsWhenAbsent(t *testing.T) {
	w := NewWorld()
	require.Panics(t, func() {
		MustResource[testConfig](w)
	})
}

func TestRemoveResource(t *testing.T) {
	w := NewWorld()
	SetResource(w, testConfig{MaxPlayers: 4})
	RemoveResource[testConfig](w)

	_, ok := GetResource[testConfig](w)
	require.False(t, ok)
}
