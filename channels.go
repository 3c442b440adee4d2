package stegano

import (
	"fmt"
	"strings"
)

// Channel identifies one colour channel of an RGB pixel.
type Channel uint8

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "R"
	case Green:
		return "G"
	case Blue:
		return "B"
	}
	return fmt.Sprintf("Channel(%d)", uint8(c))
}

// Channels is a set of colour channels.
// Whatever order it was built in, channels are always walked R, then G, then B.
type Channels uint8

const (
	ChannelR Channels = 1 << Red
	ChannelG Channels = 1 << Green
	ChannelB Channels = 1 << Blue

	AllChannels = ChannelR | ChannelG | ChannelB
)

// ChannelSet builds a set from individual channels.
func ChannelSet(cs ...Channel) Channels {
	var s Channels
	for _, c := range cs {
		s |= 1 << c
	}
	return s & AllChannels
}

// ParseChannels parses a combination such as "RGB", "gb" or "BR".
// Letters may repeat and appear in any order. An empty string selects all channels.
func ParseChannels(s string) (Channels, error) {
	var cs Channels
	for _, r := range strings.ToUpper(s) {
		switch r {
		case 'R':
			cs |= ChannelR
		case 'G':
			cs |= ChannelG
		case 'B':
			cs |= ChannelB
		default:
			return 0, fmt.Errorf("%w: unknown channel %q in %q", ErrInvalidParameter, r, s)
		}
	}
	return cs.normalize(), nil
}

// Has reports whether c is in the set.
func (cs Channels) Has(c Channel) bool {
	return cs&(1<<c) != 0
}

// Len returns the number of selected channels.
func (cs Channels) Len() int {
	return len(cs.indices())
}

func (cs Channels) String() string {
	var b strings.Builder
	for _, c := range []Channel{Red, Green, Blue} {
		if cs.Has(c) {
			b.WriteString(c.String())
		}
	}
	return b.String()
}

func (cs Channels) normalize() Channels {
	cs &= AllChannels
	if cs == 0 {
		return AllChannels
	}
	return cs
}

// indices lists the pixel offsets of the selected channels in R, G, B order.
func (cs Channels) indices() []int {
	idx := make([]int, 0, 3)
	for _, c := range []Channel{Red, Green, Blue} {
		if cs.Has(c) {
			idx = append(idx, int(c))
		}
	}
	return idx
}

// Combinations returns every non-empty channel subset,
// in the order RGB, R, G, B, RG, RB, GB.
func Combinations() []Channels {
	return []Channels{
		AllChannels,
		ChannelR, ChannelG, ChannelB,
		ChannelR | ChannelG, ChannelR | ChannelB, ChannelG | ChannelB,
	}
}
