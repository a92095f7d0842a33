package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/notif-panel/internal/logger"
)

// CommandPlayer plays cue files by running an external program such as
// paplay, aplay or afplay with the file path as the last argument.
type CommandPlayer struct {
	// command is the resolved path of the player program.
	command string
	// args are passed before the file path.
	args []string
	// files maps each cue to its sound file.
	files map[Cue]string
	// playing tracks the running playback of each cue.
	playing map[Cue]*playback
	// wg waits for playback goroutines on Close.
	wg sync.WaitGroup
	// mu protects playing.
	mu sync.Mutex
}

// playback is a running cue.
type playback struct {
	// cancel kills the player process.
	cancel context.CancelFunc
	// loop is set for looping cues.
	loop bool
}

// errNoFile is returned for a cue without a configured file.
var errNoFile = errors.New("no sound file configured")

// NewCommandPlayer resolves the player program and binds cue files to it.
func NewCommandPlayer(command string, files map[Cue]string, args ...string) (*CommandPlayer, error) {
	resolved, err := exec.LookPath(command)
	if err != nil {
		return nil, fmt.Errorf("%w: find player %q: %w", ErrPlayback, command, err)
	}

	bound := make(map[Cue]string, len(files))
	for cue, file := range files {
		bound[cue] = file
	}

	return &CommandPlayer{
		command: resolved,
		args:    args,
		files:   bound,
		playing: make(map[Cue]*playback),
	}, nil
}

// PlayOnce plays the cue a single time. A running playback of the same cue is restarted.
func (p *CommandPlayer) PlayOnce(ctx context.Context, cue Cue) error {
	return p.start(ctx, cue, false)
}

// PlayLoop plays the cue repeatedly until Stop. Looping an already looping cue is a no-op.
func (p *CommandPlayer) PlayLoop(ctx context.Context, cue Cue) error {
	return p.start(ctx, cue, true)
}

// Stop kills the playback of the cue if any. It does not wait for the process to exit.
func (p *CommandPlayer) Stop(_ context.Context, cue Cue) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if current, ok := p.playing[cue]; ok {
		current.cancel()
		delete(p.playing, cue)
	}

	return nil
}

// Playing reports whether the cue currently has a running playback.
func (p *CommandPlayer) Playing(cue Cue) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, ok := p.playing[cue]

	return ok
}

// Close stops every cue, waits for the players to exit and kills any player
// process this program started that is still alive.
func (p *CommandPlayer) Close(ctx context.Context) error {
	p.mu.Lock()
	for cue, current := range p.playing {
		current.cancel()
		delete(p.playing, cue)
	}
	p.mu.Unlock()

	p.wg.Wait()

	return terminateChildren(ctx, filepath.Base(p.command))
}

// start launches the playback goroutine for the cue.
func (p *CommandPlayer) start(ctx context.Context, cue Cue, loop bool) error {
	file, ok := p.files[cue]
	if !ok || file == "" {
		return fmt.Errorf("%w: %s: %w", ErrPlayback, cue, errNoFile)
	}

	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPlayback, cue, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if current, ok := p.playing[cue]; ok {
		if loop && current.loop {
			return nil
		}

		current.cancel()
	}

	// Playback outlives the request that started it but keeps its logger.
	playCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	current := &playback{cancel: cancel, loop: loop}
	p.playing[cue] = current

	p.wg.Add(1)

	go p.run(playCtx, cue, file, current)

	return nil
}

// run executes the player program once, or until cancelled for looping cues.
func (p *CommandPlayer) run(ctx context.Context, cue Cue, file string, current *playback) {
	defer p.wg.Done()
	defer p.finish(cue, current)

	args := append(append([]string(nil), p.args...), file)

	for {
		//nolint:gosec // The player program and its arguments come from the operator's settings.
		cmd := exec.CommandContext(ctx, p.command, args...)

		err := cmd.Run()
		if ctx.Err() != nil {
			return
		}

		if err != nil {
			logger.WarnKV(ctx, "Sound player failed", "cue", cue, "error", err)

			return
		}

		if !current.loop {
			return
		}
	}
}

// finish forgets the playback unless a newer one replaced it.
func (p *CommandPlayer) finish(cue Cue, current *playback) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current.cancel()

	if p.playing[cue] == current {
		delete(p.playing, cue)
	}
}

// terminateChildren kills child processes of this program with the provided executable name.
func terminateChildren(ctx context.Context, processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.PPid() != thisProcessID || process.Executable() != processName {
			continue
		}

		runningProcess, err := os.FindProcess(process.Pid())
		if err != nil {
			continue
		}

		if err = runningProcess.Kill(); err != nil {
			logger.WarnKV(ctx, "Unable to kill sound player", "pid", process.Pid(), "error", err)
		}
	}

	return nil
}
