package gasprice

import (
	"math/big"
	"sync/atomic"
	"time"

	"github.com/moznion/go-optional"
)

// CachedState is the last known gas price and speed table of one chain.
//
// Each field is swapped atomically on its own, so a reader always sees a
// whole value, but value and speed table are not replaced together: for a
// moment a reader may get a fresh value next to the previous speed table.
type CachedState struct {
	value     atomic.Pointer[big.Int]
	speeds    atomic.Pointer[SpeedTable]
	updatedAt atomic.Int64
}

// NewCachedState seeds the state with the fallback default and no speed table.
func NewCachedState(fallback *big.Int) *CachedState {
	s := &CachedState{}
	if fallback == nil {
		fallback = new(big.Int)
	}
	s.value.Store(new(big.Int).Set(fallback))
	return s
}

// Value returns a copy of the current gas price in wei.
func (s *CachedState) Value() *big.Int {
	return new(big.Int).Set(s.value.Load())
}

// SpeedTable returns the last oracle speed table, if one was ever fetched.
func (s *CachedState) SpeedTable() optional.Option[SpeedTable] {
	t := s.speeds.Load()
	if t == nil {
		return optional.None[SpeedTable]()
	}
	return optional.Some(*t)
}

// LastUpdated returns when Apply last changed anything, or the zero time.
func (s *CachedState) LastUpdated() time.Time {
	ns := s.updatedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// Apply writes the present fields of o and leaves absent ones untouched.
// It reports whether anything changed.
func (s *CachedState) Apply(o Outcome) bool {
	changed := false
	if v, err := o.Value.Take(); err == nil && v != nil {
		s.value.Store(new(big.Int).Set(v))
		changed = true
	}
	if t, err := o.SpeedTable.Take(); err == nil && t != nil {
		s.speeds.Store(&t)
		changed = true
	}
	if changed {
		s.updatedAt.Store(time.Now().UnixNano())
	}
	return changed
}
