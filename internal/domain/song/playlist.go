package song

import "time"

// Playlist is one entry of "listplaylists".
type Playlist struct {
	Name         string     `yaml:"name"`
	LastModified *time.Time `yaml:"last_modified,omitempty"`
}

// Playlists groups a "listplaylists" response by "playlist".
func Playlists(fs Fields) []Playlist {
	groups := Group(fs, KeyPlaylist)
	playlists := make([]Playlist, 0, len(groups))
	for _, g := range groups {
		p := Playlist{Name: g[0].Value}
		if v, ok := g.Get("Last-Modified"); ok {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				p.LastModified = &t
			}
		}
		playlists = append(playlists, p)
	}
	return playlists
}
