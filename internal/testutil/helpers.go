package testutil

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game"
	"github.com/mitchelldurbincs/GoldfishSimulator/internal/game/core"
)

// NewTestRNG creates a deterministic random number generator for tests
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// RequireConserved fails the test if the state lost or duplicated a card
func RequireConserved(t *testing.T, gs *game.GameState) {
	t.Helper()
	require.NoError(t, gs.CheckConservation())
}

// CountOf returns how many times id occurs in ids
func CountOf(ids []core.CardID, id core.CardID) int {
	n := 0
	for _, v := range ids {
		if v == id {
			n++
		}
	}
	return n
}

// CountLands returns the number of lands among ids
func CountLands(cat *core.Catalog, ids []core.CardID) int {
	n := 0
	for _, id := range ids {
		if cat.Card(id).IsLand() {
			n++
		}
	}
	return n
}
