package wrap

import (
	"fmt"

	"go.uber.org/zap"
)

// Actions simulates user interaction on one bound element. A nil *Actions,
// as found on root objects, fails every action with ErrNoActions.
type Actions struct {
	el  Element
	sim EventSimulator
}

// NewActions binds the event simulator sim to el.
func NewActions(sim EventSimulator, el Element) *Actions {
	return &Actions{el: el, sim: sim}
}

// Click fires a primary activation event at the element.
func (a *Actions) Click() error {
	if a == nil {
		return noActions("click")
	}
	zap.L().Named("wrap").Debug("click")
	return a.sim.Click(a.el)
}

// Focus fires a focus event at the element.
func (a *Actions) Focus() error {
	if a == nil {
		return noActions("focus")
	}
	zap.L().Named("wrap").Debug("focus")
	return a.sim.Focus(a.el)
}

// Blur fires a blur event at the element.
func (a *Actions) Blur() error {
	if a == nil {
		return noActions("blur")
	}
	zap.L().Named("wrap").Debug("blur")
	return a.sim.Blur(a.el)
}

// TypeText fires a change event carrying text as the element's new value.
func (a *Actions) TypeText(text string) error {
	if a == nil {
		return noActions("type text")
	}
	zap.L().Named("wrap").Debug("type text", zap.Int("length", len(text)))
	return a.sim.Change(a.el, text)
}

func noActions(op string) error {
	return fmt.Errorf("%s: %w", op, ErrNoActions)
}
