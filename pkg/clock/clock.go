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

// Package clock abstracts time for components that age state or defer
// work. Production code uses the system clock; tests drive a simulated
// clock whose advancement fires scheduled callbacks deterministically.
package clock

import (
	"time"
)

// Clock is a source of time and deferred execution.
type Clock interface {
	// Now returns the current time. The returned values are monotonically
	// non-decreasing.
	Now() time.Time
	// AfterFunc schedules f to run once d has elapsed. The callback may
	// run on a different goroutine. The returned timer can be used to
	// cancel the callback before it fires.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a handle on a scheduled callback.
type Timer interface {
	// Cancel drops the scheduled callback. It reports whether the call
	// prevented the callback from running. Cancel is idempotent.
	Cancel() bool
}

// System returns a Clock backed by the time package.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return &systemTimer{timer: time.AfterFunc(d, f)}
}

type systemTimer struct {
	timer *time.Timer
}

func (t *systemTimer) Cancel() bool {
	return t.timer.Stop()
}
