// Package audio plays tracks through an external command-line audio player.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tessro/chromie/internal/core"
	chromieerrors "github.com/tessro/chromie/internal/errors"
	"github.com/tessro/chromie/internal/logger"
)

// FilePlaceholder is replaced by the track path in an args template.
const FilePlaceholder = "{file}"

// knownPlayers lists players in detection order with the arguments that
// make each one play a single file without a window and exit.
var knownPlayers = []struct {
	Command string
	Args    []string
}{
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet", FilePlaceholder}},
	{"mpv", []string{"--no-video", "--really-quiet", FilePlaceholder}},
	{"afplay", []string{FilePlaceholder}},
	{"mpg123", []string{"-q", FilePlaceholder}},
	{"mplayer", []string{"-really-quiet", "-novideo", FilePlaceholder}},
	{"play", []string{"-q", FilePlaceholder}},
	{"cvlc", []string{"--play-and-exit", "--quiet", FilePlaceholder}},
	{"aplay", []string{"-q", FilePlaceholder}},
}

// Player runs one external process per track. It implements core.Player.
type Player struct {
	command string
	args    []string
}

// waitDelay bounds how long Play waits for output pipes after the player
// is killed.
const waitDelay = 2 * time.Second

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// New returns a player for command. An empty command selects the first
// known player found on PATH. Args may contain FilePlaceholder; when it
// does not, the track path is appended.
func New(command string, args []string) (*Player, error) {
	if command == "" {
		return Detect()
	}

	path, err := lookPath(command)
	if err != nil {
		return nil, chromieerrors.WithSuggestion(
			fmt.Errorf("%w: %s", chromieerrors.ErrNoAudioPlayer, command),
			"Check [player] command in your config, or leave it empty to auto-detect",
		)
	}

	if args == nil {
		args = defaultArgs(command)
	}
	return &Player{command: path, args: args}, nil
}

// Detect returns a player for the first known command found on PATH.
func Detect() (*Player, error) {
	for _, p := range knownPlayers {
		path, err := lookPath(p.Command)
		if err != nil {
			continue
		}
		logger.Debug("audio player detected", "command", p.Command, "path", path)
		return &Player{command: path, args: p.Args}, nil
	}
	return nil, chromieerrors.ErrNoAudioPlayer
}

// Command returns the resolved player executable.
func (p *Player) Command() string {
	return p.command
}

// Args expands the args template for path.
func (p *Player) Args(path string) []string {
	out := make([]string, 0, len(p.args)+1)
	substituted := false
	for _, a := range p.args {
		if strings.Contains(a, FilePlaceholder) {
			a = strings.ReplaceAll(a, FilePlaceholder, path)
			substituted = true
		}
		out = append(out, a)
	}
	if !substituted {
		out = append(out, path)
	}
	return out
}

// Play runs the player for track and blocks until it exits. Cancelling ctx
// kills the process.
func (p *Player) Play(ctx context.Context, track core.Track) error {
	cmd := exec.CommandContext(ctx, p.command, p.Args(track.Path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	logger.Debug("playing", "track", track.Name, "command", p.command)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return &chromieerrors.PlaybackError{Path: track.Path, Err: ctx.Err()}
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return &chromieerrors.PlaybackError{Path: track.Path, Err: err}
	}
	return nil
}

func defaultArgs(command string) []string {
	for _, p := range knownPlayers {
		if p.Command == command {
			return p.Args
		}
	}
	return []string{FilePlaceholder}
}
