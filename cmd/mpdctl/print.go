package main

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osa030/mpdctl/internal/app/playback"
	"github.com/osa030/mpdctl/internal/domain/player"
	"github.com/osa030/mpdctl/internal/domain/song"
	"github.com/osa030/mpdctl/internal/infra/discovery"
	"github.com/osa030/mpdctl/internal/infra/mpd"
)

// printer renders command results as plain text or YAML.
type printer struct {
	w    io.Writer
	yaml bool
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, yaml: format == "yaml"}
}

func (p *printer) encode(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (p *printer) message(msg string) error {
	if p.yaml {
		return p.encode(map[string]string{"result": msg})
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

// lines prints a raw response.
func (p *printer) lines(lines []string) error {
	if p.yaml {
		return p.encode(lines)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(p.w, l); err != nil {
			return err
		}
	}
	return nil
}

func (p *printer) playlists(lines []string) error {
	fs, err := mpd.DecodeFields(lines)
	if err != nil {
		return err
	}
	pls := song.Playlists(fs)
	if p.yaml {
		return p.encode(pls)
	}
	for _, pl := range pls {
		if pl.LastModified != nil {
			fmt.Fprintf(p.w, "%-30s %s\n", pl.Name, pl.LastModified.Local().Format(time.DateTime))
		} else {
			fmt.Fprintln(p.w, pl.Name)
		}
	}
	return nil
}

func (p *printer) currentSong(lines []string) error {
	if len(lines) == 0 {
		return p.message("No song queued")
	}
	fs, err := mpd.DecodeFields(lines)
	if err != nil {
		return err
	}
	s, err := song.Decode(fs)
	if err != nil {
		return err
	}
	if p.yaml {
		return p.encode(s)
	}

	fmt.Fprintln(p.w, s.DisplayName())
	if s.Album != "" {
		fmt.Fprintf(p.w, "  Album: %s\n", s.Album)
	}
	fmt.Fprintf(p.w, "  File: %s\n", s.File)
	if d, ok := s.DurationValue(); ok {
		fmt.Fprintf(p.w, "  Duration: %s\n", formatDuration(d))
	}
	if s.Pos != nil {
		fmt.Fprintf(p.w, "  Position: %d\n", *s.Pos)
	}
	return nil
}

func (p *printer) status(st *player.Status) error {
	if p.yaml {
		return p.encode(st)
	}

	fmt.Fprintf(p.w, "State: %s\n", st.State)
	if st.Song != nil && st.QueueLength != nil {
		fmt.Fprintf(p.w, "Song: %d/%d\n", *st.Song+1, *st.QueueLength)
	} else if st.QueueLength != nil {
		fmt.Fprintf(p.w, "Queue: %d songs\n", *st.QueueLength)
	}
	if e, ok := st.ElapsedDuration(); ok {
		if d, ok := st.TotalDuration(); ok {
			fmt.Fprintf(p.w, "Time: %s/%s\n", formatDuration(e), formatDuration(d))
		} else {
			fmt.Fprintf(p.w, "Time: %s\n", formatDuration(e))
		}
	}
	if st.Volume != nil {
		fmt.Fprintf(p.w, "Volume: %d%%\n", *st.Volume)
	} else {
		fmt.Fprintln(p.w, "Volume: n/a")
	}
	fmt.Fprintf(p.w, "Repeat: %s  Random: %s  Single: %s  Consume: %s\n",
		st.Repeat.Label(), st.Random.Label(), st.Single.Label(), st.Consume.Label())
	if st.Audio != nil {
		fmt.Fprintf(p.w, "Audio: %s\n", st.Audio.Raw)
	}
	if st.Bitrate != nil {
		fmt.Fprintf(p.w, "Bitrate: %d kbps\n", *st.Bitrate)
	}
	if st.Crossfade != nil && *st.Crossfade > 0 {
		fmt.Fprintf(p.w, "Crossfade: %ds\n", *st.Crossfade)
	}
	if st.UpdatingDB != nil {
		fmt.Fprintf(p.w, "Updating database (job %d)\n", *st.UpdatingDB)
	}
	if st.LastLoadedPlaylist != nil {
		fmt.Fprintf(p.w, "Last loaded playlist: %s\n", *st.LastLoadedPlaylist)
	}
	if st.Error != nil {
		fmt.Fprintf(p.w, "Error: %s\n", *st.Error)
	}
	return nil
}

func (p *printer) stats(s *player.Stats) error {
	if p.yaml {
		return p.encode(s)
	}

	fmt.Fprintf(p.w, "Artists: %d\n", s.Artists)
	fmt.Fprintf(p.w, "Albums: %d\n", s.Albums)
	fmt.Fprintf(p.w, "Songs: %d\n", s.Songs)
	fmt.Fprintf(p.w, "Uptime: %s\n", s.UptimeDuration())
	fmt.Fprintf(p.w, "Play time: %s\n", s.PlaytimeDuration())
	fmt.Fprintf(p.w, "DB play time: %s\n", s.DBPlaytimeDuration())
	if u := s.LastUpdate(); !u.IsZero() {
		fmt.Fprintf(p.w, "DB updated: %s\n", u.Local().Format(time.DateTime))
	}
	return nil
}

func (p *printer) servers(servers []discovery.Server) error {
	if p.yaml {
		return p.encode(servers)
	}
	if len(servers) == 0 {
		fmt.Fprintln(p.w, "No MPD servers found")
		return nil
	}
	for _, s := range servers {
		fmt.Fprintf(p.w, "%-30s %s\n", s.Name, s.Addr())
	}
	return nil
}

// eventRecord is the YAML form of a playback event.
type eventRecord struct {
	Time  time.Time            `yaml:"time"`
	Event string               `yaml:"event"`
	State player.PlaybackState `yaml:"state"`
	Song  *song.Song           `yaml:"song,omitempty"`
}

func (p *printer) event(e playback.Event) error {
	now := time.Now()
	if p.yaml {
		return p.encode([]eventRecord{{Time: now, Event: e.Type.String(), State: e.Status.State, Song: e.Song}})
	}

	detail := e.Status.State.String()
	switch e.Type {
	case playback.EventSongChanged:
		detail = "none"
		if e.Song != nil {
			detail = e.Song.DisplayName()
		}
	case playback.EventQueueChanged:
		if e.Status.QueueLength != nil {
			detail = fmt.Sprintf("%d songs", *e.Status.QueueLength)
		}
	case playback.EventOptionsChanged:
		detail = fmt.Sprintf("repeat=%s random=%s single=%s consume=%s",
			e.Status.Repeat, e.Status.Random, e.Status.Single, e.Status.Consume)
	case playback.EventVolumeChanged:
		detail = "n/a"
		if e.Status.Volume != nil {
			detail = fmt.Sprintf("%d%%", *e.Status.Volume)
		}
	case playback.EventDatabaseUpdate:
		detail = "finished"
		if e.Status.UpdatingDB != nil {
			detail = fmt.Sprintf("job %d", *e.Status.UpdatingDB)
		}
	case playback.EventPlayerError:
		if e.Status.Error != nil {
			detail = *e.Status.Error
		}
	}
	_, err := fmt.Fprintf(p.w, "%s %-16s %s\n", now.Format(time.TimeOnly), e.Type, detail)
	return err
}

// formatDuration renders m:ss, or h:mm:ss for long songs.
func formatDuration(d time.Duration) string {
	total := int(d.Round(time.Second).Seconds())
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
