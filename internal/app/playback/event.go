package playback

import (
	"github.com/osa030/mpdctl/internal/domain/player"
	"github.com/osa030/mpdctl/internal/domain/song"
)

// EventType represents a playback event type.
type EventType int

const (
	EventStateChanged   EventType = iota // Play, pause or stop
	EventSongChanged                     // Current song changed
	EventQueueChanged                    // Queue version changed
	EventOptionsChanged                  // Repeat, random, single or consume changed
	EventVolumeChanged                   // Volume changed or mixer appeared/disappeared
	EventDatabaseUpdate                  // Database update started or finished
	EventPlayerError                     // Server reported a new player error
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStateChanged:
		return "state_changed"
	case EventSongChanged:
		return "song_changed"
	case EventQueueChanged:
		return "queue_changed"
	case EventOptionsChanged:
		return "options_changed"
	case EventVolumeChanged:
		return "volume_changed"
	case EventDatabaseUpdate:
		return "database_update"
	case EventPlayerError:
		return "player_error"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type   EventType
	Status *player.Status // Status snapshot that produced the event
	Song   *song.Song     // Current song (only for EventSongChanged, nil when nothing is queued)
}
