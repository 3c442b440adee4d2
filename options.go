package stegano

import "fmt"

type Option func(*Codec) error

// WithBitDepth sets how many low-order bits of each selected channel carry data.
// The depth must be between 1 and 7.
func WithBitDepth(n int) Option {
	return func(c *Codec) error {
		if n < MinBitDepth || n > MaxBitDepth {
			return fmt.Errorf("%w: bit depth %d not in [%d, %d]", ErrInvalidParameter, n, MinBitDepth, MaxBitDepth)
		}
		c.depth = n
		return nil
	}
}

// WithChannels selects the channels used for hiding data.
// An empty set selects all three channels.
func WithChannels(cs Channels) Option {
	return func(c *Codec) error {
		c.channels = cs.normalize()
		return nil
	}
}

// WithChannelString is WithChannels for a combination such as "RG".
func WithChannelString(s string) Option {
	return func(c *Codec) error {
		cs, err := ParseChannels(s)
		if err != nil {
			return err
		}
		c.channels = cs
		return nil
	}
}
