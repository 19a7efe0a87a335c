package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/jeebie-ppu/jeebie/timing"
	"github.com/valerio/jeebie-ppu/jeebie/video"
)

// FrameSource produces one frame per call to RunFrame. *video.GPU satisfies it.
type FrameSource interface {
	RunFrame()
	GetFrameBuffer() *video.FrameBuffer
}

// TerminalViewer shows frames in a terminal, two pixel rows per text row using
// true color half blocks.
//
// Keys: space pauses, n steps one frame while paused, q or Esc quits.
type TerminalViewer struct {
	screen tcell.Screen
	source FrameSource
	logger *slog.Logger

	// OnFrame, if set, runs after every frame the viewer produces.
	OnFrame func(frame uint64)

	limiter *timing.TickerLimiter
	paused  bool
	frames  uint64
}

func NewTerminalViewer(source FrameSource, logger *slog.Logger) (*TerminalViewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	return newTerminalViewer(screen, source, logger), nil
}

func newTerminalViewer(screen tcell.Screen, source FrameSource, logger *slog.Logger) *TerminalViewer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TerminalViewer{
		screen: screen,
		source: source,
		logger: logger,
	}
}

// Run drives the source at the hardware frame rate until the user quits, ctx is
// cancelled or the process receives SIGINT/SIGTERM.
func (t *TerminalViewer) Run(ctx context.Context) error {
	defer func() {
		t.logger.Info("Finishing terminal")
		t.screen.Fini()
	}()

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			// nil once the screen is finalized
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	t.limiter = timing.NewTickerLimiter()
	defer t.limiter.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	t.render()
	for {
		select {
		case <-t.limiter.C():
			if !t.paused {
				t.advance()
			}
		case ev := <-events:
			if !t.handleEvent(ev) {
				return nil
			}
		case <-signals:
			t.logger.Info("Received signal to stop")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *TerminalViewer) advance() {
	t.source.RunFrame()
	t.frames++
	if t.OnFrame != nil {
		t.OnFrame(t.frames)
	}
	t.render()
}

// handleEvent reacts to input and returns false when the viewer should exit.
func (t *TerminalViewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				t.paused = !t.paused
				if !t.paused && t.limiter != nil {
					t.limiter.Reset()
				}
				t.logger.Debug("Viewer paused", "paused", t.paused, "frame", t.frames)
				t.render()
			case 'n':
				if t.paused {
					t.advance()
				}
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
		t.render()
	}
	return true
}

func (t *TerminalViewer) render() {
	t.screen.Clear()
	t.draw(t.source.GetFrameBuffer().ToSlice())
	t.drawStatus()
	t.screen.Show()
}

// draw puts the frame below the status line. Each cell shows the upper pixel
// as foreground and the lower one as background.
func (t *TerminalViewer) draw(frame []uint32) {
	width, height := video.FramebufferWidth, video.FramebufferHeight
	for row := range (height + 1) / 2 {
		for x := range width {
			top, bottom := pixelPair(frame, width, height, x, row)
			style := tcell.StyleDefault.Foreground(toTerminalColor(top)).Background(toTerminalColor(bottom))
			t.screen.SetContent(x, row+1, '▀', nil, style)
		}
	}
}

func (t *TerminalViewer) drawStatus() {
	state := "running"
	if t.paused {
		state = "paused"
	}
	status := fmt.Sprintf("frame %d | %s | space pause, n step, q quit", t.frames, state)
	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for i, ch := range status {
		t.screen.SetContent(i, 0, ch, nil, style)
	}
}

func toTerminalColor(pixel uint32) tcell.Color {
	r, g, b := channels(pixel)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
