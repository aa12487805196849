package mpd

import (
	"strconv"
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/mpdctl/internal/domain/player"
	"github.com/osa030/mpdctl/internal/domain/song"
)

// DecodeFields splits response lines into fields. Lines without a "key: value"
// separator are skipped. Each required key must be present at least once.
func DecodeFields(lines []string, required ...string) (song.Fields, error) {
	fs := make(song.Fields, 0, len(lines))
	for _, line := range lines {
		f, ok := song.ParseField(line)
		if !ok {
			zlog.Debug().Msgf("skipping malformed response line: %q", line)
			continue
		}
		fs = append(fs, f)
	}
	if err := fs.Require(required...); err != nil {
		return nil, err
	}
	return fs, nil
}

// DecodeStatus decodes a "status" response. Unknown keys are ignored. For a
// repeated key the last value wins, and a last value that fails to parse resets
// the field to its default. A required key must parse on its last occurrence.
func DecodeStatus(lines []string, required ...string) (*player.Status, error) {
	fs, err := DecodeFields(lines)
	if err != nil {
		return nil, err
	}

	st := &player.Status{}
	decoded := make(map[string]bool, len(fs))
	for _, f := range fs {
		decoded[f.Key] = decodeStatusField(st, f)
	}

	for _, key := range required {
		if !decoded[key] {
			return nil, &song.MissingFieldError{Key: key}
		}
	}
	return st, nil
}

// decodeStatusField applies one field and reports whether it was recognized and valid.
func decodeStatusField(st *player.Status, f song.Field) bool {
	k, v := f.Key, f.Value
	switch k {
	case "partition":
		return setString(&st.Partition, v)
	case "volume":
		n := parseUint[uint8](k, v, 8)
		if n != nil && *n > 100 {
			skip(k, v, "volume out of range")
			n = nil
		}
		st.Volume = n
		return st.Volume != nil
	case "repeat":
		return setModifier(&st.Repeat, k, v)
	case "random":
		return setModifier(&st.Random, k, v)
	case "single":
		return setModifier(&st.Single, k, v)
	case "consume":
		return setModifier(&st.Consume, k, v)
	case "playlist":
		st.QueueVersion = parseUint[uint32](k, v, 32)
		return st.QueueVersion != nil
	case "playlistlength":
		st.QueueLength = parseUint[uint64](k, v, 64)
		return st.QueueLength != nil
	case "state":
		state, err := player.ParsePlaybackState(v)
		if err != nil {
			skip(k, v, err.Error())
			st.State = player.StateStop
			return false
		}
		st.State = state
		return true
	case "song":
		st.Song = parseUint[uint32](k, v, 32)
		return st.Song != nil
	case "songid":
		st.SongID = parseUint[uint32](k, v, 32)
		return st.SongID != nil
	case "nextsong":
		st.NextSong = parseUint[uint32](k, v, 32)
		return st.NextSong != nil
	case "nextsongid":
		st.NextSongID = parseUint[uint32](k, v, 32)
		return st.NextSongID != nil
	case "time":
		st.Time = parseTimePair(k, v)
		return st.Time != nil
	case "elapsed":
		st.Elapsed = parseFloat(k, v)
		return st.Elapsed != nil
	case "duration":
		st.Duration = parseFloat(k, v)
		return st.Duration != nil
	case "bitrate":
		st.Bitrate = parseUint[uint32](k, v, 32)
		return st.Bitrate != nil
	case "xfade":
		st.Crossfade = parseUint[uint32](k, v, 32)
		return st.Crossfade != nil
	case "mixrampdb":
		st.MixRampDB = parseFloat(k, v)
		return st.MixRampDB != nil
	case "mixrampdelay":
		st.MixRampDelay = parseFloat(k, v)
		return st.MixRampDelay != nil
	case "audio":
		af, ok := player.ParseAudioFormat(v)
		if !ok {
			skip(k, v, "malformed audio format")
			st.Audio = nil
			return false
		}
		st.Audio = &af
		return true
	case "updating_db":
		st.UpdatingDB = parseUint[uint32](k, v, 32)
		return st.UpdatingDB != nil
	case "error":
		return setString(&st.Error, v)
	case "lastloadedplaylist":
		return setString(&st.LastLoadedPlaylist, v)
	default:
		return false
	}
}

// DecodeStats decodes a "stats" response. Missing counters stay zero; repeated
// keys follow the DecodeStatus rule.
func DecodeStats(lines []string, required ...string) (*player.Stats, error) {
	fs, err := DecodeFields(lines)
	if err != nil {
		return nil, err
	}

	stats := &player.Stats{}
	counters := map[string]*uint64{
		"artists":     &stats.Artists,
		"albums":      &stats.Albums,
		"songs":       &stats.Songs,
		"uptime":      &stats.Uptime,
		"db_playtime": &stats.DBPlaytime,
		"db_update":   &stats.DBUpdate,
		"playtime":    &stats.Playtime,
	}

	decoded := make(map[string]bool, len(counters))
	for _, f := range fs {
		dst, ok := counters[f.Key]
		if !ok {
			continue
		}
		n := parseUint[uint64](f.Key, f.Value, 64)
		if n != nil {
			*dst = *n
		} else {
			*dst = 0
		}
		decoded[f.Key] = n != nil
	}

	for _, key := range required {
		if !decoded[key] {
			return nil, &song.MissingFieldError{Key: key}
		}
	}
	return stats, nil
}

func setString(dst **string, v string) bool {
	*dst = &v
	return true
}

func setModifier(dst *player.QueueModifier, key, v string) bool {
	m, err := player.ParseQueueModifier(v)
	if err != nil {
		skip(key, v, err.Error())
		*dst = player.ModifierOff
		return false
	}
	*dst = m
	return true
}

func parseUint[T uint8 | uint32 | uint64](key, v string, bits int) *T {
	n, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		skip(key, v, err.Error())
		return nil
	}
	t := T(n)
	return &t
}

func parseFloat(key, v string) *float64 {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		skip(key, v, err.Error())
		return nil
	}
	return &f
}

// parseTimePair parses the legacy "elapsed:total" time key.
func parseTimePair(key, v string) *player.TimePair {
	e, t, ok := strings.Cut(v, ":")
	if !ok {
		skip(key, v, "expected elapsed:total")
		return nil
	}
	elapsed, err1 := strconv.ParseUint(e, 10, 32)
	total, err2 := strconv.ParseUint(t, 10, 32)
	if err1 != nil || err2 != nil {
		skip(key, v, "expected elapsed:total")
		return nil
	}
	return &player.TimePair{Elapsed: uint32(elapsed), Total: uint32(total)}
}

func skip(key, value, reason string) {
	zlog.Debug().Msgf("ignoring field: key=%s value=%q reason=%s", key, value, reason)
}
