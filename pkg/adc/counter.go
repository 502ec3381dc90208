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

// Counter is the single down counter shared by all timed phases.
// Its zero crossing is the only transition condition of the state machine.
type Counter struct {
	value int
}

// Value returns the current count
func (c Counter) Value() int {
	return c.value
}

// Done is true on the last cycle of a timed phase.
func (c Counter) Done() bool {
	return c.value == 0
}

// Tick advances the counter by one cycle. load is applied only when the
// counter is at zero, otherwise the counter decrements.
func (c *Counter) Tick(load int) {
	if c.value == 0 {
		c.value = load
		return
	}
	c.value--
}

// Reset clears the counter
func (c *Counter) Reset() {
	c.value = 0
}
