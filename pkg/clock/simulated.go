// Copyright 2024 The slp-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package clock

import (
	"sort"
	"sync"
	"time"
)

// Simulated is a Clock under test control. Time only moves when Advance is
// called. Callbacks whose deadline is reached run synchronously inside
// Advance, on the calling goroutine, in deadline order.
type Simulated struct {
	mu     sync.Mutex
	now    time.Time
	nextID uint64
	timers []*simulatedTimer
}

// NewSimulated returns a simulated clock starting at the given time.
func NewSimulated(start time.Time) *Simulated {
	return &Simulated{now: start}
}

// Now returns the current simulated time.
func (c *Simulated) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to run when the simulated time has advanced by d.
func (c *Simulated) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &simulatedTimer{
		clock:    c,
		id:       c.nextID,
		deadline: c.now.Add(d),
		f:        f,
	}
	c.nextID++
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the simulated time forward by d, running every scheduled
// callback whose deadline is reached before returning. Callbacks scheduled
// by a running callback fire in the same Advance call if they are due.
func (c *Simulated) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		t := c.popDue(target)
		if t == nil {
			break
		}
		if c.now.Before(t.deadline) {
			c.now = t.deadline
		}
		c.mu.Unlock()
		t.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// popDue removes and returns the earliest timer due at or before target,
// or nil. Ties break in scheduling order. Must hold c.mu.
func (c *Simulated) popDue(target time.Time) *simulatedTimer {
	sort.SliceStable(c.timers, func(i, j int) bool {
		if !c.timers[i].deadline.Equal(c.timers[j].deadline) {
			return c.timers[i].deadline.Before(c.timers[j].deadline)
		}
		return c.timers[i].id < c.timers[j].id
	})
	if len(c.timers) == 0 || c.timers[0].deadline.After(target) {
		return nil
	}
	t := c.timers[0]
	c.timers = c.timers[1:]
	return t
}

func (c *Simulated) cancel(t *simulatedTimer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, cand := range c.timers {
		if cand == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}

type simulatedTimer struct {
	clock    *Simulated
	id       uint64
	deadline time.Time
	f        func()
}

func (t *simulatedTimer) Cancel() bool {
	return t.clock.cancel(t)
}
