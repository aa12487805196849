// Package playback follows the state of an MPD server by polling its status.
package playback

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/mpdctl/internal/domain/player"
	"github.com/osa030/mpdctl/internal/domain/song"
	"github.com/osa030/mpdctl/internal/infra/mpd"
)

// DefaultInterval is the polling interval used when Config.Interval is zero.
const DefaultInterval = time.Second

// Source is the subset of the MPD client the monitor needs.
type Source interface {
	Status(ctx context.Context) (*player.Status, error)
	CurrentSong(ctx context.Context) ([]string, error)
}

// Config holds monitor configuration.
type Config struct {
	Interval time.Duration // Time between two status polls
}

// Monitor polls a Source and emits an Event for every observed change.
type Monitor struct {
	source  Source
	config  Config
	eventCh chan Event
	prev    *player.Status
}

// NewMonitor creates a new playback monitor.
func NewMonitor(source Source, config Config) *Monitor {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	return &Monitor{
		source:  source,
		config:  config,
		eventCh: make(chan Event, 10),
	}
}

// Events returns the event channel. It is closed when Run returns.
func (m *Monitor) Events() <-chan Event {
	return m.eventCh
}

// Run polls until ctx is done or a poll fails. The connection is not retried.
// A cancelled ctx is not reported as an error.
func (m *Monitor) Run(ctx context.Context) error {
	defer close(m.eventCh)

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		if err := m.poll(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (m *Monitor) poll(ctx context.Context) error {
	st, err := m.source.Status(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to poll status")
	}

	types := Changes(m.prev, st)
	m.prev = st

	for _, t := range types {
		e := Event{Type: t, Status: st}
		if t == EventSongChanged {
			e.Song, err = m.currentSong(ctx)
			if err != nil {
				return err
			}
		}
		zlog.Debug().Msgf("playback event: type=%s state=%s", t, st.State)
		if !m.sendEvent(ctx, e) {
			return ctx.Err()
		}
	}
	return nil
}

func (m *Monitor) currentSong(ctx context.Context) (*song.Song, error) {
	lines, err := m.source.CurrentSong(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch current song")
	}
	if len(lines) == 0 {
		return nil, nil
	}
	fs, err := mpd.DecodeFields(lines)
	if err != nil {
		return nil, err
	}
	s, err := song.Decode(fs)
	if err != nil {
		zlog.Debug().Msgf("ignoring current song: %v", err)
		return nil, nil
	}
	return s, nil
}

func (m *Monitor) sendEvent(ctx context.Context, e Event) bool {
	select {
	case m.eventCh <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// Changes lists the events that turn prev into cur. A nil prev is the first
// observation and reports the state, plus the song when one is current.
func Changes(prev, cur *player.Status) []EventType {
	if prev == nil {
		types := []EventType{EventStateChanged}
		if cur.SongID != nil {
			types = append(types, EventSongChanged)
		}
		return types
	}

	var types []EventType
	if prev.State != cur.State {
		types = append(types, EventStateChanged)
	}
	if !equal(prev.SongID, cur.SongID) {
		types = append(types, EventSongChanged)
	}
	if !equal(prev.QueueVersion, cur.QueueVersion) {
		types = append(types, EventQueueChanged)
	}
	if prev.Repeat != cur.Repeat || prev.Random != cur.Random ||
		prev.Single != cur.Single || prev.Consume != cur.Consume {
		types = append(types, EventOptionsChanged)
	}
	if !equal(prev.Volume, cur.Volume) {
		types = append(types, EventVolumeChanged)
	}
	if (prev.UpdatingDB == nil) != (cur.UpdatingDB == nil) {
		types = append(types, EventDatabaseUpdate)
	}
	if cur.Error != nil && !equal(prev.Error, cur.Error) {
		types = append(types, EventPlayerError)
	}
	return types
}

func equal[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
