package types

// Interpreter receives parse events.
//
// For every entry the events arrive in this order:
//
//	OnEntryStarted, OnPropertyCreated*, OnEntryEnded
//
// bracketed by a single OnVCardStarted before the first entry and a single
// OnVCardEnded after the last one. Interpreters are called synchronously on the
// parsing goroutine; anything slow should be handed off by the interpreter.
type Interpreter interface {
	OnVCardStarted()
	OnVCardEnded()
	OnEntryStarted()
	OnEntryEnded()
	OnPropertyCreated(p *Property)
}
