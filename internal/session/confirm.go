package session

import "errors"

// ErrResolved is returned when a confirmation is resolved twice.
var ErrResolved = errors.New("confirmation already resolved")

// Confirmation is a destructive operation split in two: the operation
// prepares one of these without mutating anything, and the caller commits
// or aborts it with Resolve. Until Resolve(true) runs, no state has
// changed, which is what makes logout and clear atomic with respect to the
// user's answer.
type Confirmation struct {
	Title string
	Body  string

	accept   func() (*Confirmation, error)
	resolved bool
}

// Resolve answers the confirmation. Answering false aborts the whole
// operation with no mutation. Answering true commits it; the commit may
// hand back a follow-up Confirmation (clearing data over an existing
// record asks again before overwriting).
func (c *Confirmation) Resolve(yes bool) (*Confirmation, error) {
	if c.resolved {
		return nil, ErrResolved
	}
	c.resolved = true
	if !yes {
		return nil, nil
	}
	return c.accept()
}
