// Package errors collects several errors into one. It is used by the
// configuration constructors so that a bad config reports every invalid
// field at once instead of the first one only.
package errors

import (
	"errors"
	"fmt"
)

// Collection accumulates errors. The zero value is ready to use.
type Collection struct {
	errors []error
}

// Add appends err to the collection. Nil errors are ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// Addf appends an error built from sentinel and a formatted message, so that
// errors.Is(c.GetError(), sentinel) holds.
func (c *Collection) Addf(sentinel error, format string, args ...any) {
	c.Add(fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...))
}

// Check adds an error when cond is false.
func (c *Collection) Check(cond bool, sentinel error, format string, args ...any) {
	if !cond {
		c.Addf(sentinel, format, args...)
	}
}

func (c *Collection) Clear() {
	c.errors = nil
}

func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// Len returns the number of collected errors.
func (c *Collection) Len() int {
	return len(c.errors)
}

// GetError returns nil, the single collected error, or all of them joined.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
