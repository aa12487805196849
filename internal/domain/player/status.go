package player

import (
	"strings"
	"time"
)

// Status is a snapshot of the "status" response.
// Pointer fields are nil when the server omitted the key or sent a value that could not be parsed.
type Status struct {
	Partition          *string       `yaml:"partition,omitempty"`
	Volume             *uint8        `yaml:"volume,omitempty"` // 0-100
	Repeat             QueueModifier `yaml:"repeat"`
	Random             QueueModifier `yaml:"random"`
	Single             QueueModifier `yaml:"single"`
	Consume            QueueModifier `yaml:"consume"`
	QueueVersion       *uint32       `yaml:"queue_version,omitempty"`
	QueueLength        *uint64       `yaml:"queue_length,omitempty"`
	State              PlaybackState `yaml:"state"`
	Song               *uint32       `yaml:"song,omitempty"`
	SongID             *uint32       `yaml:"song_id,omitempty"`
	NextSong           *uint32       `yaml:"next_song,omitempty"`
	NextSongID         *uint32       `yaml:"next_song_id,omitempty"`
	Time               *TimePair     `yaml:"time,omitempty"`
	Elapsed            *float64      `yaml:"elapsed,omitempty"`   // seconds
	Duration           *float64      `yaml:"duration,omitempty"`  // seconds
	Bitrate            *uint32       `yaml:"bitrate,omitempty"`   // kbps
	Crossfade          *uint32       `yaml:"crossfade,omitempty"` // seconds
	MixRampDB          *float64      `yaml:"mixramp_db,omitempty"`
	MixRampDelay       *float64      `yaml:"mixramp_delay,omitempty"`
	Audio              *AudioFormat  `yaml:"audio,omitempty"`
	UpdatingDB         *uint32       `yaml:"updating_db,omitempty"` // update job id
	Error              *string       `yaml:"error,omitempty"`
	LastLoadedPlaylist *string       `yaml:"last_loaded_playlist,omitempty"`
}

// TimePair is the legacy "time" key: elapsed and total whole seconds.
type TimePair struct {
	Elapsed uint32 `yaml:"elapsed"`
	Total   uint32 `yaml:"total"`
}

// AudioFormat describes the "audio" key, "samplerate:bits:channels".
// Bits may be "f" for floating point samples, and SampleRate may carry a "dsd" prefix,
// so the parts are kept as text.
type AudioFormat struct {
	Raw        string `yaml:"raw"`
	SampleRate string `yaml:"sample_rate"`
	Bits       string `yaml:"bits"`
	Channels   string `yaml:"channels"`
}

// ParseAudioFormat splits an audio format descriptor.
// It returns false unless the value has exactly three non-empty parts.
func ParseAudioFormat(s string) (AudioFormat, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return AudioFormat{}, false
	}
	for _, p := range parts {
		if p == "" {
			return AudioFormat{}, false
		}
	}
	return AudioFormat{
		Raw:        s,
		SampleRate: parts[0],
		Bits:       parts[1],
		Channels:   parts[2],
	}, true
}

// ElapsedDuration returns the elapsed time of the current song.
// It falls back to the legacy "time" key when "elapsed" is absent.
func (s *Status) ElapsedDuration() (time.Duration, bool) {
	if s.Elapsed != nil {
		return seconds(*s.Elapsed), true
	}
	if s.Time != nil {
		return time.Duration(s.Time.Elapsed) * time.Second, true
	}
	return 0, false
}

// TotalDuration returns the duration of the current song.
func (s *Status) TotalDuration() (time.Duration, bool) {
	if s.Duration != nil {
		return seconds(*s.Duration), true
	}
	if s.Time != nil {
		return time.Duration(s.Time.Total) * time.Second, true
	}
	return 0, false
}

// IsPlaying reports whether a song is playing.
func (s *Status) IsPlaying() bool {
	return s.State == StatePlay
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
