package sim

import (
	"github.com/san-kum/lanyard/internal/dynamo"
	"github.com/san-kum/lanyard/internal/input"
	"github.com/san-kum/lanyard/internal/lanyard"
)

// Script feeds pointer events into a headless run. Events is called once
// per tick before the tick runs, with the scene as it stands.
type Script interface {
	Events(s *lanyard.Scene, tick int, t float64) []input.Event
}

// ScriptFunc adapts a function to Script.
type ScriptFunc func(s *lanyard.Scene, tick int, t float64) []input.Event

func (f ScriptFunc) Events(s *lanyard.Scene, tick int, t float64) []input.Event {
	return f(s, tick, t)
}

// ObserverFunc adapts a function to dynamo.Observer.
type ObserverFunc func(f *dynamo.Frame)

func (o ObserverFunc) OnTick(f *dynamo.Frame) { o(f) }
