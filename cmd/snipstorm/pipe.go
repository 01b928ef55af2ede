package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/tidwall/sjson"

	"github.com/dshills/snipstorm/internal/app"
	"github.com/dshills/snipstorm/internal/dispatch"
)

// pipeContext is the single input context pipe mode feeds.
const pipeContext = "stdin"

// runPipe streams runes from in through the matcher and writes one
// JSON line per expansion to out. A newline resets the context, the
// way leaving an input field would.
func runPipe(application *app.App, in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	var wg sync.WaitGroup
	var writeMu sync.Mutex
	wg.Add(1)
	go func() {
		defer wg.Done()
		for resp := range application.Responses() {
			if !application.Valid(resp) {
				continue
			}
			writeMu.Lock()
			fmt.Fprintln(w, responseLine(resp))
			w.Flush()
			writeMu.Unlock()
		}
	}()

	r := bufio.NewReader(in)
	var feedErr error
	for {
		ch, _, err := r.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			feedErr = fmt.Errorf("reading input: %w", err)
			break
		}
		if ch == '\n' {
			application.Reset(pipeContext)
			continue
		}
		if _, err := application.Feed(pipeContext, ch); err != nil {
			feedErr = fmt.Errorf("feeding input: %w", err)
			break
		}
	}

	// Shutdown cancels outstanding renders and closes the response
	// stream once the workers exit.
	application.Shutdown()
	wg.Wait()
	return feedErr
}

// responseLine encodes one dispatcher response as a JSON object.
func responseLine(resp dispatch.Response) string {
	line, _ := sjson.Set("", "context", resp.ContextID)
	if resp.Err != nil {
		line, _ = sjson.Set(line, "error", resp.Err.Error())
		return line
	}
	line, _ = sjson.Set(line, "deletions", resp.Output.Deletions)
	line, _ = sjson.Set(line, "text", resp.Output.Text)
	if resp.Output.Cursor != nil {
		line, _ = sjson.Set(line, "cursor", *resp.Output.Cursor)
	}
	for _, warn := range resp.Output.Warnings {
		line, _ = sjson.Set(line, "warnings.-1", warn.Err.Error())
	}
	return line
}
