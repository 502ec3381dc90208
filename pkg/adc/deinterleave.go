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

// Deinterleave cuts the lane registers into channel words. regs are in
// logical lane order. Only the low k*Width bits of every register are used,
// where k is the number of channels per lane. Channel i*k+j is taken from
// bits [(k-1-j)*Width, (k-j)*Width) of lane i, so the first word shifted in
// ends up in the lowest channel of the group.
//
// The words are the values as sent by the converter (inverted sign) and
// are returned sign extended.
func Deinterleave(p Params, regs []Register) []int32 {
	k := p.ChannelsPerLane()
	out := make([]int32, p.Channels)
	for i, reg := range regs {
		for j := 0; j < k; j++ {
			lo := (k - 1 - j) * p.Width
			out[i*k+j] = SignExtend(reg.Word(lo, p.Width), p.Width)
		}
	}
	return out
}

// SignExtend interprets the low width bits of v as a two's complement value.
func SignExtend(v uint64, width int) int32 {
	shift := 64 - width
	return int32(int64(v<<shift) >> shift)
}

// Negate returns -v computed as ~v+1 in width bits. The most negative value
// maps onto itself.
func Negate(v int32, width int) int32 {
	mask := uint64(1)<<width - 1
	return SignExtend((^uint64(v)+1)&mask, width)
}
