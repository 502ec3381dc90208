/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package adc

import (
	"reflect"
	"testing"
)

var testParams = []Params{
	{Channels: 8, Lanes: 2, Width: 16, TCnvh: 5, TConv: 57, TRtt: 5},
	{Channels: 1, Lanes: 1, Width: 1, TCnvh: 1, TConv: 2, TRtt: 1},
	{Channels: 6, Lanes: 3, Width: 12, TCnvh: 3, TConv: 10, TRtt: 7},
	{Channels: 4, Lanes: 4, Width: 18, TCnvh: 2, TConv: 30, TRtt: 12},
}

func newTestController(t *testing.T, p Params) *Controller {
	t.Helper()
	c, err := NewController(p)
	if err != nil {
		t.Fatalf("could not create controller: %+v", err)
	}
	return c
}

// pulse drives start for one cycle.
func pulse(c *Controller) {
	c.SetStart(true)
	c.Tick()
	c.SetStart(false)
}

// stream returns, per pin, the bits a converter sends for the raw words
// in shift order.
func stream(p Params, raw []int32) [][]bool {
	k := p.ChannelsPerLane()
	pins := make([][]bool, p.Lanes)
	for pin := range pins {
		lane := p.Lanes - 1 - pin
		for j := 0; j < k; j++ {
			v := uint32(raw[lane*k+j])
			for b := p.Width - 1; b >= 0; b-- {
				pins[pin] = append(pins[pin], v>>b&1 == 1)
			}
		}
	}
	return pins
}

func TestControllerTiming(t *testing.T) {
	for _, p := range testParams {
		t.Run(p.String(), func(t *testing.T) {
			c := newTestController(t, p)
			if !c.Done() || c.Reading() {
				t.Fatalf("controller must start idle")
			}
			pulse(c)

			total := p.Acquisition()
			var (
				reading, enabled, convert, updates int
				updateAt                           = -1
				idleAt                             = -1
			)
			for n := 0; n < total+10; n++ {
				if c.Done() {
					idleAt = n
					break
				}
				if c.Reading() {
					reading++
				}
				if c.ClockEnable() {
					enabled++
					if c.Phase() != PhaseRead {
						t.Fatalf("clock enabled in %s at cycle %d", c.Phase(), n)
					}
				} else if c.Phase() == PhaseRead {
					t.Fatalf("clock disabled in READ at cycle %d", n)
				}
				if c.Convert() {
					convert++
				}
				if c.Update() {
					updates++
					updateAt = n
				}
				c.Tick()
			}

			if idleAt != total {
				t.Fatalf("invalid acquisition length: got=%d, want=%d", idleAt, total)
			}
			if updates != 1 || updateAt != total-1 {
				t.Fatalf("invalid update pulse: count=%d at=%d, want=1 at=%d", updates, updateAt, total-1)
			}
			if want := p.ReadDuration() + p.TRtt; reading != want {
				t.Fatalf("invalid reading cycles: got=%d, want=%d", reading, want)
			}
			if want := p.ReadDuration(); enabled != want {
				t.Fatalf("invalid clock enable cycles: got=%d, want=%d", enabled, want)
			}
			if convert != p.TCnvh {
				t.Fatalf("invalid convert cycles: got=%d, want=%d", convert, p.TCnvh)
			}
			if got := c.Synth().Register(); got != SynthSeed {
				t.Fatalf("synthesizer not back to seed after READ: got=%06b", got)
			}
		})
	}
}

func TestControllerPhaseSequence(t *testing.T) {
	p := Params{Channels: 2, Lanes: 1, Width: 2, TCnvh: 2, TConv: 3, TRtt: 2}
	c := newTestController(t, p)
	pulse(c)

	var got []Phase
	for !c.Done() {
		got = append(got, c.Phase())
		c.Tick()
	}
	want := []Phase{PhaseCnvh, PhaseCnvh, PhaseConv, PhaseConv, PhaseConv}
	for i := 0; i < p.ReadDuration(); i++ {
		want = append(want, PhaseRead)
	}
	want = append(want, PhaseRtt, PhaseRtt)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid phase sequence:\ngot= %v\nwant=%v", got, want)
	}
}

func TestControllerIgnoresStartWhenBusy(t *testing.T) {
	p := testParams[0]
	ref := newTestController(t, p)
	c := newTestController(t, p)
	pulse(ref)
	pulse(c)

	total := p.Acquisition()
	for n := 0; n < total; n++ {
		c.SetStart(n < total-1)
		if c.Phase() != ref.Phase() || c.Count() != ref.Count() {
			t.Fatalf("start changed the state at cycle %d: got=%s/%d, want=%s/%d",
				n, c.Phase(), c.Count(), ref.Phase(), ref.Count())
		}
		c.Tick()
		ref.Tick()
	}
	c.SetStart(false)
	for n := 0; n < 2*total; n++ {
		if !c.Done() {
			t.Fatalf("a second acquisition was queued, phase %s at cycle %d", c.Phase(), n)
		}
		c.Tick()
	}
}

func TestControllerRoundTrip(t *testing.T) {
	for _, p := range testParams {
		t.Run(p.String(), func(t *testing.T) {
			c := newTestController(t, p)

			values := make([]int32, p.Channels)
			raw := make([]int32, p.Channels)
			for i := range values {
				v := int32(i*7919+3) % (1 << (p.Width - 1))
				if i%2 == 1 {
					v = -v
				}
				values[i] = SignExtend(uint64(v), p.Width)
				raw[i] = Negate(values[i], p.Width)
			}
			pins := stream(p, raw)

			for acq := 0; acq < 3; acq++ {
				pulse(c)
				bit := 0
				for !c.Done() {
					// one CLKOUT edge every third READ cycle
					if c.Phase() == PhaseRead && c.Count()%BitCycles == 0 {
						sdo := make([]bool, p.Lanes)
						for pin := range sdo {
							sdo[pin] = pins[pin][bit]
						}
						c.Return().Clock(sdo)
						bit++
					}
					c.Tick()
				}
				if want := p.ChannelsPerLane() * p.Width; bit != want {
					t.Fatalf("invalid number of bits: got=%d, want=%d", bit, want)
				}
				if got := c.Data(); !reflect.DeepEqual(got, values) {
					t.Fatalf("acquisition %d: invalid data:\ngot= %v\nwant=%v", acq, got, values)
				}
				if got := c.Raw(); !reflect.DeepEqual(got, raw) {
					t.Fatalf("acquisition %d: invalid raw words:\ngot= %v\nwant=%v", acq, got, raw)
				}
			}
		})
	}
}

func TestControllerHoldsData(t *testing.T) {
	p := Params{Channels: 2, Lanes: 2, Width: 4, TCnvh: 1, TConv: 2, TRtt: 1}
	c := newTestController(t, p)
	pulse(c)
	for !c.Done() {
		if c.Phase() == PhaseRead && c.Count() == 0 {
			for i := 0; i < p.Width; i++ {
				c.Return().Clock([]bool{true, i == p.Width-1})
			}
		}
		c.Tick()
	}
	want := []int32{-1, 1}
	if got := c.Data(); !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid data: got=%v, want=%v", got, want)
	}
	// new bits outside an acquisition are not published
	c.Return().Clock([]bool{false, false})
	for i := 0; i < 20; i++ {
		c.Tick()
	}
	if got := c.Data(); !reflect.DeepEqual(got, want) {
		t.Fatalf("data changed while idle: got=%v, want=%v", got, want)
	}

	c.Reset()
	if !c.Done() || c.Count() != 0 {
		t.Fatalf("invalid state after reset: %s/%d", c.Phase(), c.Count())
	}
	if got := c.Data(); !reflect.DeepEqual(got, want) {
		t.Fatalf("reset cleared the published data: got=%v", got)
	}
}
