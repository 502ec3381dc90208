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

package sim

// edge is what travels back from the converter: CLKOUT and the lane levels.
type edge struct {
	clk bool
	sdo []bool
}

// delayLine delays the return path by a fixed number of half cycles.
type delayLine struct {
	buf []edge
	pos int
}

func newDelayLine(delay, lanes int) *delayLine {
	l := &delayLine{
		buf: make([]edge, delay),
	}
	for i := range l.buf {
		// CLKOUT idles high like SCK
		l.buf[i] = edge{clk: true, sdo: make([]bool, lanes)}
	}
	return l
}

// push inserts e and returns the value pushed delay half cycles ago.
func (l *delayLine) push(e edge) edge {
	if len(l.buf) == 0 {
		return e
	}
	out := l.buf[l.pos]
	l.buf[l.pos] = e
	l.pos++
	if l.pos == len(l.buf) {
		l.pos = 0
	}
	return out
}
