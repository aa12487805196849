package mpd

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/mpdctl/internal/domain/player"
)

func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

func TestDecodeStatus_OrderIndependent(t *testing.T) {
	a, err := DecodeStatus(lines("volume: 50\nrepeat: 1\n"))
	require.NoError(t, err)
	b, err := DecodeStatus(lines("repeat: 1\nvolume: 50\n"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	require.NotNil(t, a.Volume)
	assert.Equal(t, uint8(50), *a.Volume)
	assert.Equal(t, player.ModifierOn, a.Repeat)

	again, err := DecodeStatus(lines("volume: 50\nrepeat: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, a, again)
}

func TestDecodeStatus_UnknownKeys(t *testing.T) {
	st, err := DecodeStatus(lines("volume: 50\nfrobnicate: xyz\n"))
	require.NoError(t, err)

	volume := uint8(50)
	assert.Equal(t, &player.Status{Volume: &volume}, st)
}

func TestDecodeStatus_Full(t *testing.T) {
	input := `partition: default
volume: 75
repeat: 0
random: 1
single: oneshot
consume: 1
playlist: 12
playlistlength: 4
mixrampdb: -17.000000
mixrampdelay: 2.5
state: play
song: 1
songid: 2
time: 35:200
elapsed: 34.816
bitrate: 320
duration: 200.123
audio: 44100:24:2
nextsong: 2
nextsongid: 3
xfade: 5
updating_db: 7
error: Failed to open "x"
lastloadedplaylist: Morning
`
	st, err := DecodeStatus(lines(input))
	require.NoError(t, err)

	assert.Equal(t, "default", *st.Partition)
	assert.Equal(t, uint8(75), *st.Volume)
	assert.Equal(t, player.ModifierOff, st.Repeat)
	assert.Equal(t, player.ModifierOn, st.Random)
	assert.Equal(t, player.ModifierOneshot, st.Single)
	assert.Equal(t, player.ModifierOn, st.Consume)
	assert.Equal(t, uint32(12), *st.QueueVersion)
	assert.Equal(t, uint64(4), *st.QueueLength)
	assert.Equal(t, -17.0, *st.MixRampDB)
	assert.Equal(t, 2.5, *st.MixRampDelay)
	assert.Equal(t, player.StatePlay, st.State)
	assert.Equal(t, uint32(1), *st.Song)
	assert.Equal(t, uint32(2), *st.SongID)
	assert.Equal(t, player.TimePair{Elapsed: 35, Total: 200}, *st.Time)
	assert.Equal(t, 34.816, *st.Elapsed)
	assert.Equal(t, uint32(320), *st.Bitrate)
	assert.Equal(t, 200.123, *st.Duration)
	assert.Equal(t, "24", st.Audio.Bits)
	assert.Equal(t, uint32(2), *st.NextSong)
	assert.Equal(t, uint32(3), *st.NextSongID)
	assert.Equal(t, uint32(5), *st.Crossfade)
	assert.Equal(t, uint32(7), *st.UpdatingDB)
	assert.Equal(t, `Failed to open "x"`, *st.Error)
	assert.Equal(t, "Morning", *st.LastLoadedPlaylist)
}

func TestDecodeStatus_InvalidValuesStayAbsent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, st *player.Status)
	}{
		{
			name:  "volume without mixer",
			input: "volume: -1",
			check: func(t *testing.T, st *player.Status) { assert.Nil(t, st.Volume) },
		},
		{
			name:  "volume out of range",
			input: "volume: 150",
			check: func(t *testing.T, st *player.Status) { assert.Nil(t, st.Volume) },
		},
		{
			name:  "non numeric song",
			input: "song: first",
			check: func(t *testing.T, st *player.Status) { assert.Nil(t, st.Song) },
		},
		{
			name:  "unknown state keeps default",
			input: "state: rewinding",
			check: func(t *testing.T, st *player.Status) { assert.Equal(t, player.StateStop, st.State) },
		},
		{
			name:  "unknown modifier keeps default",
			input: "repeat: yes",
			check: func(t *testing.T, st *player.Status) { assert.Equal(t, player.ModifierOff, st.Repeat) },
		},
		{
			name:  "malformed time",
			input: "time: 35",
			check: func(t *testing.T, st *player.Status) { assert.Nil(t, st.Time) },
		},
		{
			name:  "malformed audio",
			input: "audio: 44100",
			check: func(t *testing.T, st *player.Status) { assert.Nil(t, st.Audio) },
		},
		{
			name:  "line without separator",
			input: "volume:50\nconsume: 1",
			check: func(t *testing.T, st *player.Status) {
				assert.Nil(t, st.Volume)
				assert.Equal(t, player.ModifierOn, st.Consume)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := DecodeStatus(lines(tt.input))
			require.NoError(t, err)
			tt.check(t, st)
		})
	}
}

func TestDecodeStatus_Required(t *testing.T) {
	_, err := DecodeStatus(lines("state: play\nvolume: x\n"), "state", "volume")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))
	assert.Contains(t, err.Error(), "volume")

	st, err := DecodeStatus(lines("state: pause\n"), "state")
	require.NoError(t, err)
	assert.Equal(t, player.StatePause, st.State)
}

func TestDecodeStatus_RequiredUsesLastValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		key     string
		wantErr bool
	}{
		{name: "valid then invalid volume", input: "volume: 50\nvolume: bad\n", key: "volume", wantErr: true},
		{name: "invalid then valid volume", input: "volume: bad\nvolume: 50\n", key: "volume"},
		{name: "valid then invalid state", input: "state: play\nstate: bogus\n", key: "state", wantErr: true},
		{name: "valid then invalid modifier", input: "random: 1\nrandom: yes\n", key: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeStatus(lines(tt.input), tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMissingRequiredField))
				assert.Contains(t, err.Error(), tt.key)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodeStatus_RepeatedKeysLastWins(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *player.Status
	}{
		{name: "number", input: "volume: 50\nvolume: bad\n", expected: &player.Status{}},
		{name: "state", input: "state: play\nstate: bogus\n", expected: &player.Status{State: player.StateStop}},
		{name: "modifier", input: "repeat: 1\nrepeat: yes\n", expected: &player.Status{Repeat: player.ModifierOff}},
		{name: "valid last", input: "state: play\nstate: pause\n", expected: &player.Status{State: player.StatePause}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := DecodeStatus(lines(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, st)
		})
	}
}

func TestDecodeStatus_Empty(t *testing.T) {
	st, err := DecodeStatus([]string{})
	require.NoError(t, err)
	assert.Equal(t, &player.Status{}, st)
}

func TestDecodeStats(t *testing.T) {
	input := `artists: 12
albums: 30
songs: 321
uptime: 3600
db_playtime: 86400
db_update: 1700000000
playtime: 120
`
	stats, err := DecodeStats(lines(input))
	require.NoError(t, err)
	assert.Equal(t, &player.Stats{
		Artists:    12,
		Albums:     30,
		Songs:      321,
		Uptime:     3600,
		DBPlaytime: 86400,
		DBUpdate:   1700000000,
		Playtime:   120,
	}, stats)
}

func TestDecodeStats_Sparse(t *testing.T) {
	stats, err := DecodeStats(lines("uptime: 10\nalbums: many\nfuture_counter: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, &player.Stats{Uptime: 10}, stats)

	_, err = DecodeStats(lines("uptime: 10\n"), "uptime", "artists")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))

	stats, err = DecodeStats(lines("songs: 5\nsongs: lots\n"))
	require.NoError(t, err)
	assert.Zero(t, stats.Songs)

	_, err = DecodeStats(lines("songs: 5\nsongs: lots\n"), "songs")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingRequiredField))
}

func TestDecodeFields(t *testing.T) {
	fs, err := DecodeFields(lines("file: a.mp3\nTitle: A: Live\nnoise\nfile: b.mp3\n"))
	require.NoError(t, err)
	require.Len(t, fs, 3)
	assert.Equal(t, "A: Live", fs[1].Value)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, fs.All("file"))

	_, err = DecodeFields(lines("Title: A\n"), "file")
	assert.True(t, errors.Is(err, ErrMissingRequiredField))

	fs, err = DecodeFields([]string{})
	require.NoError(t, err)
	assert.Empty(t, fs)
}
