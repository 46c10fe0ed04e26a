package options_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vickenty/sereal/config"
	"github.com/vickenty/sereal/internal/options"
)

// config.Config is this module's one real consumer of the options pattern,
// so it doubles as the integration test for Apply/New/NoError.
func TestApplyAgainstConfig(t *testing.T) {
	cfg, err := config.New(
		config.WithMaxArraySize(10),
		config.WithMaxHashSize(20),
		config.WithMaxStringLen(30),
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), cfg.MaxArraySize())
	assert.Equal(t, uint64(20), cfg.MaxHashSize())
	assert.Equal(t, uint64(30), cfg.MaxStringLen())

	// Unset bounds keep their default.
	assert.Equal(t, uint64(config.DefaultMaxSuffixLen), cfg.MaxSuffixLen())
}

func TestApplyStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	opts := []options.Option[*int]{
		options.NoError(func(n *int) { *n = 1; calls++ }),
		options.New(func(n *int) error { return boom }),
		options.NoError(func(n *int) { *n = 2; calls++ }),
	}

	var n int
	err := options.Apply(&n, opts...)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, n, "the option after the error must not run")
	assert.Equal(t, 1, calls)
}

func TestApplyWithNoOptions(t *testing.T) {
	var n int
	require.NoError(t, options.Apply(&n))
	assert.Equal(t, 0, n)
}

func TestNewPropagatesSetterError(t *testing.T) {
	negative := errors.New("negative")
	opt := options.New(func(n *int) error {
		if *n < 0 {
			return negative
		}
		*n = 5
		return nil
	})

	n := -1
	err := options.Apply(&n, opt)
	assert.ErrorIs(t, err, negative)
	assert.Equal(t, -1, n, "the target must not be mutated on error")
}
