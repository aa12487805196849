// Package main provides the mpdctl command line client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/mpdctl/internal/app/playback"
	"github.com/osa030/mpdctl/internal/infra/config"
	"github.com/osa030/mpdctl/internal/infra/discovery"
	"github.com/osa030/mpdctl/internal/infra/logger"
	"github.com/osa030/mpdctl/internal/infra/mpd"
)

var (
	app        = kingpin.New("mpdctl", "Music Player Daemon command line client")
	configPath = app.Flag("config", "Path to config file").Default("mpdctl.yaml").String()
	addr       = app.Flag("addr", "MPD server address (host:port or socket path)").Short('a').String()
	timeout    = app.Flag("timeout", "Read/write timeout").Duration()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()
	format     = app.Flag("format", "Output format").Short('o').Default("text").Enum("text", "yaml")

	// queue command
	queueCmd = app.Command("queue", "List the current queue")

	// playlist command
	playlistCmd  = app.Command("playlist", "List the contents of a stored playlist")
	playlistName = playlistCmd.Arg("name", "Playlist name").Required().String()

	// playlists command
	playlistsCmd = app.Command("playlists", "List stored playlists")

	// clear command
	clearCmd = app.Command("clear", "Clear the current queue")

	// load command
	loadCmd  = app.Command("load", "Load a stored playlist into the queue")
	loadName = loadCmd.Arg("name", "Playlist name").Required().String()

	// status command
	statusCmd = app.Command("status", "Show player status").Default()

	// stats command
	statsCmd = app.Command("stats", "Show server statistics")

	// current command
	currentCmd = app.Command("current", "Show the current song").Alias("currentsong")

	// ping command
	pingCmd = app.Command("ping", "Check the connection")

	// watch command
	watchCmd      = app.Command("watch", "Print playback events until interrupted")
	watchInterval = watchCmd.Flag("interval", "Status polling interval").Default("1s").Duration()

	// discover command
	discoverCmd = app.Command("discover", "Find MPD servers on the local network")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	closer, err := logger.Init(logger.Config{Output: cfg.Log.Output, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := newPrinter(os.Stdout, *format)
	if err := run(ctx, command, cfg, out); err != nil {
		zlog.Debug().Msgf("%s failed: %+v", command, err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		closer.Close()
		os.Exit(1)
	}
}

// applyFlags lets command line flags take precedence over the config file.
func applyFlags(cfg *config.Config) {
	if *addr != "" {
		cfg.MPD.Addr = *addr
	}
	if *timeout > 0 {
		cfg.MPD.Timeout = *timeout
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logfile != "" {
		cfg.Log.Output = *logfile
	}
}

// run executes one command. Using a separate function ensures the connection is
// closed before the process exits.
func run(ctx context.Context, command string, cfg *config.Config, out *printer) error {
	if command == discoverCmd.FullCommand() {
		return discover(ctx, cfg, out)
	}

	zlog.Debug().Msgf("connecting: addr=%s timeout=%s", cfg.MPD.Addr, cfg.MPD.Timeout)
	client, err := mpd.Dial(ctx, cfg.MPD.Addr, mpd.WithTimeout(cfg.MPD.Timeout))
	if err != nil {
		return err
	}
	defer client.Close()

	switch command {
	case queueCmd.FullCommand():
		lines, err := client.Queue(ctx)
		if err != nil {
			return err
		}
		return out.lines(lines)
	case playlistCmd.FullCommand():
		lines, err := client.ListPlaylist(ctx, *playlistName)
		if err != nil {
			return err
		}
		return out.lines(lines)
	case playlistsCmd.FullCommand():
		lines, err := client.ListPlaylists(ctx)
		if err != nil {
			return err
		}
		return out.playlists(lines)
	case clearCmd.FullCommand():
		if err := client.ClearQueue(ctx); err != nil {
			return err
		}
		return out.message("Queue cleared")
	case loadCmd.FullCommand():
		if err := client.LoadPlaylist(ctx, *loadName); err != nil {
			return err
		}
		return out.message(fmt.Sprintf("Loaded %s", *loadName))
	case statusCmd.FullCommand():
		st, err := client.Status(ctx)
		if err != nil {
			return err
		}
		return out.status(st)
	case statsCmd.FullCommand():
		stats, err := client.Stats(ctx)
		if err != nil {
			return err
		}
		return out.stats(stats)
	case currentCmd.FullCommand():
		lines, err := client.CurrentSong(ctx)
		if err != nil {
			return err
		}
		return out.currentSong(lines)
	case pingCmd.FullCommand():
		start := time.Now()
		if err := client.Ping(ctx); err != nil {
			return err
		}
		return out.message(fmt.Sprintf("OK MPD %s (%s)", client.ProtocolVersion(), time.Since(start).Round(time.Microsecond)))
	case watchCmd.FullCommand():
		return watch(ctx, client, *watchInterval, out)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func discover(ctx context.Context, cfg *config.Config, out *printer) error {
	browser := discovery.NewBrowser(discovery.Config{
		Service: cfg.Discovery.Service,
		Domain:  cfg.Discovery.Domain,
		Timeout: cfg.Discovery.Timeout,
	})
	servers, err := browser.Browse(ctx)
	if err != nil {
		return err
	}
	return out.servers(servers)
}

// watch prints events while the monitor runs. Interrupting ends it cleanly.
func watch(ctx context.Context, source playback.Source, interval time.Duration, out *printer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	monitor := playback.NewMonitor(source, playback.Config{Interval: interval})

	errCh := make(chan error, 1)
	go func() {
		errCh <- monitor.Run(ctx)
	}()

	for e := range monitor.Events() {
		if err := out.event(e); err != nil {
			cancel()
			<-errCh
			return err
		}
	}
	return <-errCh
}
