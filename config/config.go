// Package config defines the resource bounds shared by the header reader,
// the frame orchestrator, and the body parser, built with the same
// functional-options pattern mebo's blob.NumericEncoderConfig uses
// (internal/options.Option[T] + With* constructors) rather than a bare
// struct literal, so zero-value defaults stay centralized in New.
package config

import "github.com/vickenty/sereal/internal/options"

// Default resource bounds, applied before any allocation sized by a
// varint-decoded count taken from untrusted input.
const (
	DefaultMaxSuffixLen       = 1_000_000
	DefaultMaxStringLen       = 1_000_000
	DefaultMaxCompressedSize  = 100_000_000
	DefaultMaxUncompressedSize = 100_000_000
	DefaultMaxArraySize       = 1_000_000
	DefaultMaxHashSize        = 1_000_000
)

// Config bounds the resources a single parse may consume. All limits are
// checked against varint-decoded sizes before the corresponding allocation.
type Config struct {
	maxSuffixLen        uint64
	maxStringLen        uint64
	maxCompressedSize   uint64
	maxUncompressedSize uint64
	maxArraySize        uint64
	maxHashSize         uint64
}

// New builds a Config from its defaults, then applies opts in order.
func New(opts ...options.Option[*Config]) (*Config, error) {
	c := &Config{
		maxSuffixLen:        DefaultMaxSuffixLen,
		maxStringLen:        DefaultMaxStringLen,
		maxCompressedSize:   DefaultMaxCompressedSize,
		maxUncompressedSize: DefaultMaxUncompressedSize,
		maxArraySize:        DefaultMaxArraySize,
		maxHashSize:         DefaultMaxHashSize,
	}
	if err := options.Apply[*Config](c, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns a Config with every bound at its default value.
func Default() *Config {
	c, _ := New()
	return c
}

func (c *Config) MaxSuffixLen() uint64        { return c.maxSuffixLen }
func (c *Config) MaxStringLen() uint64        { return c.maxStringLen }
func (c *Config) MaxCompressedSize() uint64   { return c.maxCompressedSize }
func (c *Config) MaxUncompressedSize() uint64 { return c.maxUncompressedSize }
func (c *Config) MaxArraySize() uint64        { return c.maxArraySize }
func (c *Config) MaxHashSize() uint64         { return c.maxHashSize }

// WithMaxSuffixLen overrides the header suffix length bound.
func WithMaxSuffixLen(n uint64) options.Option[*Config] {
	return options.NoError[*Config](func(c *Config) { c.maxSuffixLen = n })
}

// WithMaxStringLen overrides the BINARY/STR_UTF8 length bound.
func WithMaxStringLen(n uint64) options.Option[*Config] {
	return options.NoError[*Config](func(c *Config) { c.maxStringLen = n })
}

// WithMaxCompressedSize overrides the compressed-body size bound checked by
// the frame orchestrator before invoking a codec.
func WithMaxCompressedSize(n uint64) options.Option[*Config] {
	return options.NoError[*Config](func(c *Config) { c.maxCompressedSize = n })
}

// WithMaxUncompressedSize overrides the decompressed-body size bound
// (meaningful for the ZLIB path, which declares its uncompressed size
// up front).
func WithMaxUncompressedSize(n uint64) options.Option[*Config] {
	return options.NoError[*Config](func(c *Config) { c.maxUncompressedSize = n })
}

// WithMaxArraySize overrides the ARRAY/ARRAYREF element-count bound.
func WithMaxArraySize(n uint64) options.Option[*Config] {
	return options.NoError[*Config](func(c *Config) { c.maxArraySize = n })
}

// WithMaxHashSize overrides the HASH/HASHREF pair-count bound.
func WithMaxHashSize(n uint64) options.Option[*Config] {
	return options.NoError[*Config](func(c *Config) { c.maxHashSize = n })
}
