package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snipstorm/internal/app"
	"github.com/dshills/snipstorm/internal/dispatch"
)

// interactiveContext is the single input context the terminal feeds.
const interactiveContext = "terminal"

// runInteractive runs a small terminal demo: typed characters flow
// through the matcher and completed expansions are spliced into the
// visible line, the way an injector would rewrite the focused field.
func runInteractive(application *app.App) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	// Expansion responses arrive on their own goroutine; forward them
	// into the tcell event queue so one loop owns all state.
	done := make(chan struct{})
	go func() {
		for resp := range application.Responses() {
			screen.PostEvent(newExpansionEvent(resp))
		}
		close(done)
	}()

	ui := &interactiveUI{screen: screen}
	ui.status = "Type to expand. Enter clears the line, Esc resets the buffer, Ctrl-C quits."
	ui.draw()

	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlC:
				application.Shutdown()
				<-done
				return nil
			case tcell.KeyEscape:
				application.Reset(interactiveContext)
				ui.status = "buffer reset"
			case tcell.KeyEnter:
				application.Reset(interactiveContext)
				ui.line = ui.line[:0]
				ui.cursor = 0
				ui.status = ""
			case tcell.KeyRune:
				ui.insert(ev.Rune())
				queued, err := application.Feed(interactiveContext, ev.Rune())
				switch {
				case err != nil:
					ui.status = fmt.Sprintf("feed: %v", err)
				case queued:
					ui.status = "rendering..."
				}
			}
			ui.draw()

		case *expansionEvent:
			ui.apply(application, ev.resp)
			ui.draw()

		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

// interactiveUI is the terminal demo's visible state.
type interactiveUI struct {
	screen tcell.Screen
	line   []rune
	cursor int
	status string
}

// insert places one rune at the cursor.
func (ui *interactiveUI) insert(r rune) {
	ui.line = append(ui.line[:ui.cursor], append([]rune{r}, ui.line[ui.cursor:]...)...)
	ui.cursor++
}

// apply splices one expansion into the visible line at the cursor and
// honors any cursor hint the render produced.
func (ui *interactiveUI) apply(application *app.App, resp dispatch.Response) {
	if !application.Valid(resp) {
		ui.status = "stale expansion dropped"
		return
	}
	if resp.Err != nil {
		ui.status = fmt.Sprintf("render: %v", resp.Err)
		return
	}
	n := resp.Output.Deletions
	if n > ui.cursor {
		n = ui.cursor
	}
	text := []rune(resp.Output.Text)
	ui.line = append(ui.line[:ui.cursor-n], append(text, ui.line[ui.cursor:]...)...)
	ui.cursor = ui.cursor - n + len(text)
	if resp.Output.Cursor != nil && *resp.Output.Cursor <= len(text) {
		ui.cursor -= *resp.Output.Cursor
	}
	ui.status = ""
	for _, warn := range resp.Output.Warnings {
		ui.status = fmt.Sprintf("warning: %v", warn.Err)
	}
}

func (ui *interactiveUI) draw() {
	ui.screen.Clear()
	putLine(ui.screen, 0, "> "+string(ui.line), tcell.StyleDefault)
	putLine(ui.screen, 2, ui.status, tcell.StyleDefault.Dim(true))
	ui.screen.ShowCursor(2+ui.cursor, 0)
	ui.screen.Show()
}

func putLine(screen tcell.Screen, row int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		screen.SetContent(col, row, r, nil, style)
		col++
	}
}

// expansionEvent carries a dispatcher response through the tcell
// event queue.
type expansionEvent struct {
	tcell.EventTime
	resp dispatch.Response
}

func newExpansionEvent(resp dispatch.Response) *expansionEvent {
	ev := &expansionEvent{resp: resp}
	ev.SetEventNow()
	return ev
}
