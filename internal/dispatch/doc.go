// Package dispatch moves render work off the keystroke path.
//
// Matching must never block, but rendering may: shell, script, and
// lua variables spawn processes or run code and wait. The dispatcher
// accepts render requests over a channel, evaluates them on worker
// goroutines, and delivers results on a response channel, so the
// goroutine feeding keystrokes only ever enqueues.
//
// Every request gets a correlation id, and every response carries the
// input context and generation of the match that produced it. A
// context reset while a render is in flight starts a new generation;
// the render completes anyway, but Valid reports false for its
// response and the frontend must discard it instead of injecting.
package dispatch
