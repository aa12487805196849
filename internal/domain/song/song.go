package song

import (
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
)

// Leading keys that open a new record in a listing.
const (
	KeyFile     = "file"
	KeyPlaylist = "playlist"
)

// Song is one song record from "currentsong", "playlistinfo" or "listplaylistinfo".
type Song struct {
	File     string            `yaml:"file"`
	Title    string            `yaml:"title,omitempty"`
	Artist   string            `yaml:"artist,omitempty"`
	Album    string            `yaml:"album,omitempty"`
	Name     string            `yaml:"name,omitempty"`
	Pos      *uint32           `yaml:"pos,omitempty"`
	ID       *uint32           `yaml:"id,omitempty"`
	Duration *float64          `yaml:"duration,omitempty"` // seconds
	Extra    map[string]string `yaml:"extra,omitempty"`
}

// songTags mirrors the protocol keys; numeric keys are parsed separately so a bad value
// only drops that field.
type songTags struct {
	File     string         `mapstructure:"file"`
	Title    string         `mapstructure:"Title"`
	Artist   string         `mapstructure:"Artist"`
	Album    string         `mapstructure:"Album"`
	Name     string         `mapstructure:"Name"`
	Pos      string         `mapstructure:"Pos"`
	ID       string         `mapstructure:"Id"`
	Duration string         `mapstructure:"duration"`
	Time     string         `mapstructure:"Time"`
	Rest     map[string]any `mapstructure:",remain"`
}

// Decode decodes the fields of one song. The "file" key is required.
func Decode(fs Fields) (*Song, error) {
	if err := fs.Require(KeyFile); err != nil {
		return nil, err
	}

	var tags songTags
	if err := mapstructure.Decode(fs.Map(), &tags); err != nil {
		return nil, errors.Wrap(err, "failed to decode song fields")
	}

	s := &Song{
		File:   tags.File,
		Title:  tags.Title,
		Artist: tags.Artist,
		Album:  tags.Album,
		Name:   tags.Name,
		Pos:    parseUint32(tags.Pos),
		ID:     parseUint32(tags.ID),
	}

	if d, err := strconv.ParseFloat(tags.Duration, 64); err == nil {
		s.Duration = &d
	} else if t, err := strconv.ParseUint(tags.Time, 10, 32); err == nil {
		d := float64(t)
		s.Duration = &d
	}

	if len(tags.Rest) > 0 {
		s.Extra = make(map[string]string, len(tags.Rest))
		for k, v := range tags.Rest {
			if str, ok := v.(string); ok {
				s.Extra[k] = str
			}
		}
	}

	return s, nil
}

// Songs groups a listing by "file" and decodes each song.
func Songs(fs Fields) ([]Song, error) {
	groups := Group(fs, KeyFile)
	songs := make([]Song, 0, len(groups))
	for i, g := range groups {
		s, err := Decode(g)
		if err != nil {
			return nil, errors.Wrapf(err, "song %d", i)
		}
		songs = append(songs, *s)
	}
	return songs, nil
}

// DurationValue returns the song duration, if known.
func (s *Song) DurationValue() (time.Duration, bool) {
	if s.Duration == nil {
		return 0, false
	}
	return time.Duration(*s.Duration * float64(time.Second)), true
}

// DisplayName returns "Artist - Title" when both tags are set, otherwise the
// best available identifier.
func (s *Song) DisplayName() string {
	switch {
	case s.Artist != "" && s.Title != "":
		return s.Artist + " - " + s.Title
	case s.Title != "":
		return s.Title
	case s.Name != "":
		return s.Name
	default:
		return s.File
	}
}

func parseUint32(v string) *uint32 {
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil
	}
	u := uint32(n)
	return &u
}
