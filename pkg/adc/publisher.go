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

// Publisher holds the published channel words. It is written once per
// acquisition on the update pulse and keeps its value in between.
type Publisher struct {
	width int
	data  []int32
}

// NewPublisher returns a publisher with all channels at zero
func NewPublisher(channels, width int) *Publisher {
	return &Publisher{
		width: width,
		data:  make([]int32, channels),
	}
}

// Latch publishes the negation of the raw words, undoing the sign
// inversion of the converter outputs.
func (p *Publisher) Latch(raw []int32) {
	for i, v := range raw {
		p.data[i] = Negate(v, p.width)
	}
}

// Channel returns the published word of channel i
func (p *Publisher) Channel(i int) int32 {
	return p.data[i]
}

// Data returns a copy of all published words
func (p *Publisher) Data() []int32 {
	data := make([]int32, len(p.data))
	copy(data, p.data)
	return data
}
