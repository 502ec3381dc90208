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

func TestClockSynth(t *testing.T) {
	s := NewClockSynth()

	type levels struct{ first, second bool }
	want := []levels{
		{true, true},
		{false, false},
		{false, true},
	}
	for period := 0; period < 4; period++ {
		for i, w := range want {
			first, second := s.Levels()
			if first != w.first || second != w.second {
				t.Fatalf("period %d cycle %d: got=(%v,%v), want=(%v,%v) reg=%s",
					period, i, first, second, w.first, w.second, s)
			}
			s.Tick(true)
		}
	}
	if got := s.Register(); got != SynthSeed {
		t.Fatalf("register not back to seed: got=%06b, want=%06b", got, SynthSeed)
	}

	s.Tick(true)
	held := s.Register()
	for i := 0; i < 5; i++ {
		s.Tick(false)
	}
	if got := s.Register(); got != held {
		t.Fatalf("disabled synthesizer moved: got=%06b, want=%06b", got, held)
	}
	s.Reset()
	if got := s.Register(); got != SynthSeed {
		t.Fatalf("invalid reset value: got=%06b, want=%06b", got, SynthSeed)
	}
}

func TestClockSynthEdges(t *testing.T) {
	// one rising and one falling edge per three cycles
	s := NewClockSynth()
	prev := true
	var rising, falling int
	for i := 0; i < 3*16; i++ {
		first, second := s.Levels()
		for _, level := range []bool{first, second} {
			if level && !prev {
				rising++
			}
			if !level && prev {
				falling++
			}
			prev = level
		}
		s.Tick(true)
	}
	if rising != 16 || falling != 16 {
		t.Fatalf("invalid edge count: rising=%d falling=%d, want=16", rising, falling)
	}
}
