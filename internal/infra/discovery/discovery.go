// Package discovery finds MPD servers announced over mDNS.
package discovery

import (
	"context"
	"io"
	"log"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/mdns"
	zlog "github.com/rs/zerolog/log"
)

// Config holds discovery configuration.
type Config struct {
	Service string        // e.g. "_mpd._tcp"
	Domain  string        // e.g. "local"
	Timeout time.Duration // how long to listen for answers
}

// Server describes a discovered MPD server.
type Server struct {
	Name string   `yaml:"name"`
	Host string   `yaml:"host"`
	Port int      `yaml:"port"`
	Info []string `yaml:"info,omitempty"`
}

// Addr returns the host:port to dial.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type queryFunc func(ctx context.Context, params *mdns.QueryParam) error

// Browser runs mDNS queries.
type Browser struct {
	config Config
	query  queryFunc
}

// NewBrowser creates a discovery browser.
func NewBrowser(cfg Config) *Browser {
	return &Browser{
		config: cfg,
		query:  mdns.QueryContext,
	}
}

// Browse queries once and returns the servers that answered, sorted by name.
func (b *Browser) Browse(ctx context.Context) ([]Server, error) {
	if b.config.Service == "" {
		return nil, errors.New("discovery service name is required")
	}

	// Channel is closed after the query returns; the collector drains it.
	entries := make(chan *mdns.ServiceEntry, 16)
	done := make(chan map[string]Server, 1)
	go func() {
		found := make(map[string]Server)
		for entry := range entries {
			s, ok := b.toServer(entry)
			if !ok {
				continue
			}
			zlog.Debug().Msgf("discovered MPD server: name=%s addr=%s", s.Name, s.Addr())
			found[s.Addr()] = s
		}
		done <- found
	}()

	params := mdns.DefaultParams(b.config.Service)
	if b.config.Domain != "" {
		params.Domain = b.config.Domain
	}
	if b.config.Timeout > 0 {
		params.Timeout = b.config.Timeout
	}
	params.Entries = entries
	params.DisableIPv6 = true
	// Suppress hashicorp/mdns logging
	params.Logger = log.New(io.Discard, "", 0)

	err := b.query(ctx, params)
	close(entries)
	found := <-done
	if err != nil && len(found) == 0 {
		return nil, errors.Wrapf(err, "mdns query for %s failed", b.config.Service)
	}

	servers := make([]Server, 0, len(found))
	for _, s := range found {
		servers = append(servers, s)
	}
	sort.Slice(servers, func(i, j int) bool {
		if servers[i].Name != servers[j].Name {
			return servers[i].Name < servers[j].Name
		}
		return servers[i].Addr() < servers[j].Addr()
	})
	return servers, nil
}

func (b *Browser) toServer(entry *mdns.ServiceEntry) (Server, bool) {
	if entry == nil || entry.AddrV4 == nil || entry.Port == 0 {
		return Server{}, false
	}
	if !strings.Contains(entry.Name, b.config.Service) {
		return Server{}, false
	}

	name := entry.Name
	if idx := strings.Index(name, "."+b.config.Service); idx > 0 {
		name = name[:idx]
	}
	name = strings.ReplaceAll(name, `\ `, " ")

	return Server{
		Name: name,
		Host: entry.AddrV4.String(),
		Port: entry.Port,
		Info: entry.InfoFields,
	}, true
}
