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
	"testing"
)

func TestParamsValidate(t *testing.T) {
	valid := Params{Channels: 8, Lanes: 2, Width: 16, TCnvh: 5, TConv: 57, TRtt: 5}
	if err := valid.Validate(); err != nil {
		t.Fatalf("could not validate %s: %+v", valid, err)
	}
	if got, want := valid.ReadDuration(), 192; got != want {
		t.Fatalf("invalid read duration: got=%d, want=%d", got, want)
	}
	if got, want := valid.Depth(), 384; got != want {
		t.Fatalf("invalid lane depth: got=%d, want=%d", got, want)
	}

	for _, tc := range []struct {
		name  string
		edit  func(p *Params)
		field string
	}{
		{name: "zero-channels", edit: func(p *Params) { p.Channels = 0 }, field: "channels"},
		{name: "negative-lanes", edit: func(p *Params) { p.Lanes = -2 }, field: "lanes"},
		{name: "zero-width", edit: func(p *Params) { p.Width = 0 }, field: "width"},
		{name: "wide", edit: func(p *Params) { p.Width = 33 }, field: "width"},
		{name: "lanes-not-dividing", edit: func(p *Params) { p.Lanes = 3 }, field: "lanes"},
		{name: "zero-cnvh", edit: func(p *Params) { p.TCnvh = 0 }, field: "t_cnvh"},
		{name: "conv-one", edit: func(p *Params) { p.TConv = 1 }, field: "t_conv"},
		{name: "zero-rtt", edit: func(p *Params) { p.TRtt = 0 }, field: "t_rtt"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.edit(&p)
			err := p.Validate()
			if err == nil {
				t.Fatalf("expected an error for %s", p)
			}
			e, ok := err.(ErrInvalidParams)
			if !ok {
				t.Fatalf("invalid error type: got=%T, want=%T", err, ErrInvalidParams{})
			}
			if e.Field != tc.field {
				t.Fatalf("invalid field: got=%q, want=%q", e.Field, tc.field)
			}
			if _, err := NewController(p); err == nil {
				t.Fatalf("controller accepted invalid params %s", p)
			}
		})
	}
}

func TestParamsReload(t *testing.T) {
	p := Params{Channels: 8, Lanes: 2, Width: 16, TCnvh: 5, TConv: 57, TRtt: 5}
	for _, tc := range []struct {
		phase Phase
		want  int
	}{
		{PhaseIdle, 4},
		{PhaseCnvh, 56},
		{PhaseConv, 191},
		{PhaseRead, 4},
		{PhaseRtt, 0},
	} {
		if got := p.Reload(tc.phase); got != tc.want {
			t.Fatalf("invalid reload value in %s: got=%d, want=%d", tc.phase, got, tc.want)
		}
	}
}

func TestCounter(t *testing.T) {
	var c Counter
	if !c.Done() {
		t.Fatalf("reset counter must be done")
	}
	c.Tick(2)
	for _, want := range []int{2, 1, 0} {
		if got := c.Value(); got != want {
			t.Fatalf("invalid count: got=%d, want=%d", got, want)
		}
		c.Tick(7)
	}
	if got, want := c.Value(), 7; got != want {
		t.Fatalf("load ignored at zero: got=%d, want=%d", got, want)
	}
	c.Tick(100)
	if got, want := c.Value(), 6; got != want {
		t.Fatalf("load applied before zero: got=%d, want=%d", got, want)
	}
}

func TestPhaseString(t *testing.T) {
	for ph, want := range map[Phase]string{
		PhaseIdle: "IDLE",
		PhaseCnvh: "CNVH",
		PhaseConv: "CONV",
		PhaseRead: "READ",
		PhaseRtt:  "RTT",
		Phase(9):  "UNKNOWN",
	} {
		if got := ph.String(); got != want {
			t.Fatalf("invalid phase name: got=%q, want=%q", got, want)
		}
	}
	if got := PhaseRtt.Next(); got != PhaseIdle {
		t.Fatalf("invalid phase after RTT: got=%s, want=%s", got, PhaseIdle)
	}
}
