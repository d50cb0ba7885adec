// Package repeat provides Repeater, a value that is fed back through a
// function on every call, with the number of calls kept across invocations.
package repeat

import (
	"math"
	"sync"

	"github.com/hyp3rd/dodkit/internal/sentinel"
)

// Repeater applies fn to its previous result on every Next call.
type Repeater struct {
	mu    sync.Mutex
	fn    func(float64) float64
	value float64
	count int
}

// New returns a Repeater starting from x.
func New(x float64, fn func(float64) float64) (*Repeater, error) {
	if fn == nil {
		return nil, sentinel.ErrNilOperation
	}

	return &Repeater{fn: fn, value: x}, nil
}

// Next applies fn to the current value, stores the result and returns it.
func (r *Repeater) Next() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.count++
	r.value = r.fn(r.value)

	return r.value
}

// Value returns the current value without advancing.
func (r *Repeater) Value() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.value
}

// Count returns how many times Next was called.
func (r *Repeater) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.count
}

// Square returns x squared.
func Square(x float64) float64 {
	return x * x
}

// Pow returns x raised to the power of itself.
func Pow(x float64) float64 {
	return math.Pow(x, x)
}
