package render

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/lightlag/components"
)

// Terminal presents frames on a tcell screen.
//
// Input is read by Run on its own goroutine and buffered until the next
// Present; keys pressed while the buffer is full are dropped.
type Terminal struct {
	screen  tcell.Screen
	actions chan Action
}

// NewTerminal takes over the terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.Clear()
	return &Terminal{
		screen:  screen,
		actions: make(chan Action, 64),
	}, nil
}

// Run pumps input events until ctx is cancelled or the screen is closed.
func (t *Terminal) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		// Unblock PollEvent.
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if a := keyEventAction(ev); a != ActionNone {
				select {
				case t.actions <- a:
				default:
				}
			}
		}
	}
}

func keyEventAction(ev *tcell.EventKey) Action {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit
	case tcell.KeyLeft:
		return ActionPanLeft
	case tcell.KeyRight:
		return ActionPanRight
	case tcell.KeyUp:
		return ActionPanUp
	case tcell.KeyDown:
		return ActionPanDown
	case tcell.KeyRune:
		return KeyAction(ev.Rune())
	}
	return ActionNone
}

// Present implements Backend.
func (t *Terminal) Present(f *Frame) []Action {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.Cells[y*f.Width+x]
			style := tcell.StyleDefault.Foreground(tcellColor(c.Fg)).Background(tcellColor(c.Bg))
			t.screen.SetContent(x, y, c.Glyph, nil, style)
		}
	}
	t.screen.Show()

	var out []Action
	for {
		select {
		case a := <-t.actions:
			out = append(out, a)
		default:
			return out
		}
	}
}

// Close implements Backend and restores the terminal.
func (t *Terminal) Close() {
	t.screen.Fini()
}

func tcellColor(c components.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
