package component

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Channel is a collision category a shape belongs to.
type Channel uint8

const (
	ChannelWorldStatic Channel = iota
	ChannelWorldDynamic
	ChannelClimbable
	ChannelPawn
)

var channelNames = map[string]Channel{
	"world_static":  ChannelWorldStatic,
	"world_dynamic": ChannelWorldDynamic,
	"climbable":     ChannelClimbable,
	"pawn":          ChannelPawn,
}

func ParseChannel(name string) (Channel, error) {
	c, ok := channelNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown collision channel %q", name)
	}
	return c, nil
}

func (c Channel) String() string {
	for name, v := range channelNames {
		if v == c {
			return name
		}
	}
	return fmt.Sprintf("channel(%d)", uint8(c))
}

// ChannelSet is a bit set of channels used to filter queries.
type ChannelSet uint32

// AllChannels matches every shape.
const AllChannels ChannelSet = ^ChannelSet(0)

func Channels(cs ...Channel) ChannelSet {
	var s ChannelSet
	for _, c := range cs {
		s |= 1 << c
	}
	return s
}

func (s ChannelSet) Has(c Channel) bool { return s&(1<<c) != 0 }

func (s ChannelSet) Intersects(o ChannelSet) bool { return s&o != 0 }

// UnmarshalYAML accepts a list of channel names or a single name.
func (s *ChannelSet) UnmarshalYAML(value *yaml.Node) error {
	var names []string
	switch value.Kind {
	case yaml.ScalarNode:
		names = []string{value.Value}
	case yaml.SequenceNode:
		if err := value.Decode(&names); err != nil {
			return err
		}
	default:
		return fmt.Errorf("channels must be a name or a list of names")
	}
	var out ChannelSet
	for _, n := range names {
		c, err := ParseChannel(n)
		if err != nil {
			return err
		}
		out |= Channels(c)
	}
	*s = out
	return nil
}
