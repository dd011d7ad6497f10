package adapter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls [][]string
	fail  map[string]bool
}

func newTestLauncher(command string, goos string, installed ...string) (*Launcher, *recorder) {
	rec := &recorder{fail: map[string]bool{}}
	have := map[string]bool{}
	for _, p := range installed {
		have[p] = true
	}

	l := NewLauncher(command, []string{"--fs"}, NullLogger())
	l.goos = goos
	l.lookPath = func(p string) (string, error) {
		if have[p] {
			return "/usr/bin/" + p, nil
		}
		return "", errors.New("not found")
	}
	l.start = func(name string, args ...string) error {
		if rec.fail[name] {
			return errors.New("failed")
		}
		rec.calls = append(rec.calls, append([]string{name}, args...))
		return nil
	}
	return l, rec
}

const trailer = "https://www.youtube.com/watch?v=Way9Dexny3w"

func TestLaunchConfiguredPlayer(t *testing.T) {
	l, rec := newTestLauncher("mpv", "linux")
	require.NoError(t, l.Launch(trailer))
	assert.Equal(t, [][]string{{"mpv", "--fs", trailer}}, rec.calls)
}

func TestLaunchDetectsPlayer(t *testing.T) {
	l, rec := newTestLauncher("", "linux", "vlc")
	require.NoError(t, l.Launch(trailer))
	assert.Equal(t, [][]string{{"vlc", trailer}}, rec.calls)
}

func TestLaunchMacOpensApp(t *testing.T) {
	l, rec := newTestLauncher("", "darwin")
	require.NoError(t, l.Launch(trailer))
	assert.Equal(t, [][]string{{"open", "-n", "-a", "IINA", trailer}}, rec.calls)
}

func TestLaunchFallsBackToBrowser(t *testing.T) {
	l, rec := newTestLauncher("", "linux")
	require.NoError(t, l.Launch(trailer))
	assert.Equal(t, [][]string{{"xdg-open", trailer}}, rec.calls)

	rec.fail["xdg-open"] = true
	assert.ErrorIs(t, l.Launch(trailer), ErrNoPlayer)
}

func TestLaunchEmptyURL(t *testing.T) {
	l, rec := newTestLauncher("mpv", "linux")
	assert.ErrorIs(t, l.Launch(""), ErrNoPlayer)
	assert.Empty(t, rec.calls)
}
