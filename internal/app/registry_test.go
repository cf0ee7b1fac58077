package app

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRegistryClosesInReverseOrder(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())

	var order []string
	registry.Register("database", func() error {
		order = append(order, "database")
		return nil
	})
	registry.Register("redis", func() error {
		order = append(order, "redis")
		return nil
	})
	registry.Register("nats", func() error {
		order = append(order, "nats")
		return nil
	})

	registry.Close()
	require.Equal(t, []string{"nats", "redis", "database"}, order)
}

func TestRegistryContinuesPastFailures(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())

	var closed []string
	registry.Register("first", func() error {
		closed = append(closed, "first")
		return nil
	})
	registry.Register("second", func() error {
		return errors.New("release failed")
	})

	registry.Close()
	require.Equal(t, []string{"first"}, closed)
}

func TestRegistryCloseIsIdempotent(t *testing.T) {
	registry := NewRegistry(zerolog.Nop())

	calls := 0
	registry.Register("resource", func() error {
		calls++
		return nil
	})

	registry.Close()
	registry.Close()
	require.Equal(t, 1, calls)
}
