// Package player provides the playback domain types reported by an MPD server.
package player

import "fmt"

// PlaybackState represents the player state reported by the "state" key.
type PlaybackState int

const (
	StateStop  PlaybackState = iota // Nothing playing (default)
	StatePlay                       // Playing
	StatePause                      // Paused
)

// String returns the protocol representation of the state.
func (s PlaybackState) String() string {
	switch s {
	case StateStop:
		return "stop"
	case StatePlay:
		return "play"
	case StatePause:
		return "pause"
	default:
		return "unknown"
	}
}

// ParsePlaybackState parses the value of the "state" key.
func ParsePlaybackState(s string) (PlaybackState, error) {
	switch s {
	case "stop":
		return StateStop, nil
	case "play":
		return StatePlay, nil
	case "pause":
		return StatePause, nil
	default:
		return StateStop, &ParseError{Kind: "playback state", Value: s}
	}
}

// MarshalYAML encodes the state as its protocol text.
func (s PlaybackState) MarshalYAML() (any, error) {
	return s.String(), nil
}

// QueueModifier represents a tri-state queue toggle (repeat, random, single, consume).
type QueueModifier int

const (
	ModifierOff     QueueModifier = iota // Disabled (default)
	ModifierOn                           // Enabled
	ModifierOneshot                      // Enabled until the current song finishes
)

// String returns the protocol representation of the modifier.
func (m QueueModifier) String() string {
	switch m {
	case ModifierOff:
		return "0"
	case ModifierOn:
		return "1"
	case ModifierOneshot:
		return "oneshot"
	default:
		return "unknown"
	}
}

// Label returns a human readable form of the modifier.
func (m QueueModifier) Label() string {
	switch m {
	case ModifierOff:
		return "off"
	case ModifierOn:
		return "on"
	case ModifierOneshot:
		return "oneshot"
	default:
		return "unknown"
	}
}

// ParseQueueModifier parses "0", "1" or "oneshot".
func ParseQueueModifier(s string) (QueueModifier, error) {
	switch s {
	case "0":
		return ModifierOff, nil
	case "1":
		return ModifierOn, nil
	case "oneshot":
		return ModifierOneshot, nil
	default:
		return ModifierOff, &ParseError{Kind: "queue modifier", Value: s}
	}
}

// MarshalYAML encodes the modifier as its label.
func (m QueueModifier) MarshalYAML() (any, error) {
	return m.Label(), nil
}

// ParseError reports text that is not a member of a closed enumeration.
type ParseError struct {
	Kind  string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Kind, e.Value)
}
