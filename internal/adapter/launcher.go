package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoPlayer is returned when no configured, detected or default opener worked
var ErrNoPlayer = errors.New("no player available")

// Launcher opens trailer URLs in an external player or the browser
type Launcher struct {
	command string   // configured player command, empty for auto-detect
	args    []string // additional arguments for the player
	goos    string
	logger  *slog.Logger

	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// launchPath defines a single way to launch a player
type launchPath struct {
	path      string   // command path: "mpv", or "open-a:AppName" on macOS
	openFlags []string // for "open-a:" paths only
}

// streamPlayers can play YouTube and Vimeo URLs directly (through yt-dlp)
var streamPlayers = map[string]map[string][]launchPath{
	"mpv": {
		"darwin":  {{path: "mpv"}},
		"linux":   {{path: "mpv"}},
		"windows": {{path: "mpv"}},
	},
	"iina": {
		"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
	},
	"celluloid": {
		"linux": {{path: "celluloid"}},
	},
	"vlc": {
		"darwin":  {{path: "vlc"}, {path: "open-a:VLC"}},
		"linux":   {{path: "vlc"}},
		"windows": {{path: "vlc"}},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "mpv", "vlc"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"mpv", "vlc"},
}

// NewLauncher creates a launcher. An empty command auto-detects a player and
// falls back to the system browser.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		goos:     runtime.GOOS,
		logger:   logger,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Launch opens url in the configured player, a detected player or the
// system default handler, in that order
func (l *Launcher) Launch(url string) error {
	if url == "" {
		return fmt.Errorf("%w: empty url", ErrNoPlayer)
	}

	// Tier 1: user configured a specific player
	if l.command != "" {
		l.logger.Info("launching configured player", "command", l.command, "url", url)
		args := append(append([]string{}, l.args...), url)
		return l.start(l.command, args...)
	}

	// Tier 2: candidate chain
	if name, ok := l.detectAndLaunch(url); ok {
		l.logger.Info("launched with detected player", "player", name)
		return nil
	}

	// Tier 3: system default (open/xdg-open/start)
	l.logger.Info("no candidate players found, using system default", "os", l.goos)
	if err := l.launchDefault(url); err != nil {
		return fmt.Errorf("%w: %v", ErrNoPlayer, err)
	}
	return nil
}

func (l *Launcher) detectAndLaunch(url string) (string, bool) {
	candidates, ok := candidatePlayers[l.goos]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		for _, lp := range streamPlayers[name][l.goos] {
			var err error
			if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
				args := append(append([]string{}, lp.openFlags...), "-a", app, url)
				err = l.start("open", args...)
			} else if _, err = l.lookPath(lp.path); err == nil {
				err = l.start(lp.path, url)
			}
			if err == nil {
				return name, true
			}
			l.logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}
	return "", false
}

func (l *Launcher) launchDefault(url string) error {
	switch l.goos {
	case "darwin":
		return l.start("open", url)
	case "windows":
		return l.start("cmd", "/c", "start", "", url)
	default:
		return l.start("xdg-open", url)
	}
}
