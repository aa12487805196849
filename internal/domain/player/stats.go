package player

import "time"

// Stats is a snapshot of the "stats" response. All counters are seconds or counts;
// a counter the server did not report is zero.
type Stats struct {
	Artists    uint64 `yaml:"artists"`
	Albums     uint64 `yaml:"albums"`
	Songs      uint64 `yaml:"songs"`
	Uptime     uint64 `yaml:"uptime"`      // seconds since the daemon started
	DBPlaytime uint64 `yaml:"db_playtime"` // sum of all song durations in the database
	DBUpdate   uint64 `yaml:"db_update"`   // unix time of the last database update
	Playtime   uint64 `yaml:"playtime"`    // time spent playing since start
}

// UptimeDuration returns Uptime as a duration.
func (s *Stats) UptimeDuration() time.Duration {
	return time.Duration(s.Uptime) * time.Second
}

// DBPlaytimeDuration returns DBPlaytime as a duration.
func (s *Stats) DBPlaytimeDuration() time.Duration {
	return time.Duration(s.DBPlaytime) * time.Second
}

// PlaytimeDuration returns Playtime as a duration.
func (s *Stats) PlaytimeDuration() time.Duration {
	return time.Duration(s.Playtime) * time.Second
}

// LastUpdate returns the time of the last database update.
// Returns the zero time if the server never reported one.
func (s *Stats) LastUpdate() time.Time {
	if s.DBUpdate == 0 {
		return time.Time{}
	}
	return time.Unix(int64(s.DBUpdate), 0)
}
