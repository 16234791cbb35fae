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

package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slp-go/slp/pkg/clock"
)

func TestAdvanceFiresDueTimers(t *testing.T) {
	c := clock.NewSimulated(time.Unix(0, 0))
	var fired []string
	c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	c.AfterFunc(10*time.Second, func() { fired = append(fired, "c") })

	c.Advance(5 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, time.Unix(5, 0), c.Now())

	c.Advance(5 * time.Second)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
}

func TestCallbackSeesDeadlineTime(t *testing.T) {
	c := clock.NewSimulated(time.Unix(0, 0))
	var at time.Time
	c.AfterFunc(3*time.Second, func() { at = c.Now() })
	c.Advance(time.Minute)
	assert.Equal(t, time.Unix(3, 0), at)
	assert.Equal(t, time.Unix(60, 0), c.Now())
}

func TestReschedulingCallbackFiresInSameAdvance(t *testing.T) {
	c := clock.NewSimulated(time.Unix(0, 0))
	var runs int
	var tick func()
	tick = func() {
		runs++
		c.AfterFunc(10*time.Second, tick)
	}
	c.AfterFunc(10*time.Second, tick)
	c.Advance(35 * time.Second)
	assert.Equal(t, 3, runs)
}

func TestCancelIsIdempotent(t *testing.T) {
	c := clock.NewSimulated(time.Unix(0, 0))
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	assert.True(t, timer.Cancel())
	assert.False(t, timer.Cancel())
	c.Advance(time.Minute)
	assert.False(t, fired)
}

func TestCancelAfterFire(t *testing.T) {
	c := clock.NewSimulated(time.Unix(0, 0))
	timer := c.AfterFunc(time.Second, func() {})
	c.Advance(2 * time.Second)
	assert.False(t, timer.Cancel())
}
