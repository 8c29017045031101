package vcard

// Counter is an Interpreter that counts entries.
type Counter struct {
	n int
}

var _ Interpreter = (*Counter)(nil)

// NewCounter returns a Counter at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// Count returns the number of entries seen so far.
func (c *Counter) Count() int {
	return c.n
}

func (c *Counter) OnVCardStarted()               {}
func (c *Counter) OnVCardEnded()                 {}
func (c *Counter) OnEntryStarted()               {}
func (c *Counter) OnEntryEnded()                 { c.n++ }
func (c *Counter) OnPropertyCreated(_ *Property) {}
