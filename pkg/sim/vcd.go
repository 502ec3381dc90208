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

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"jinr.ru/greenlab/go-adcsim/pkg/adc"
)

const (
	// DefaultHalfPeriod is half the controller period in picoseconds for a
	// 300 MHz controller clock and a 10 ns bit clock.
	DefaultHalfPeriod = 1667
	phaseBits         = 3
)

type vcdVar struct {
	id    string
	width int
	name  string
	last  string
}

// VCD writes the bench signals as a value change dump. It is a Probe.
type VCD struct {
	w          *bufio.Writer
	halfPeriod uint64
	vars       []*vcdVar
	err        error
}

// vcdID returns the short printable identifier of variable n.
func vcdID(n int) string {
	const first, count = '!', '~' - '!' + 1
	id := []byte{byte(first + n%count)}
	for n /= count; n > 0; n /= count {
		id = append(id, byte(first+n%count))
	}
	return string(id)
}

// NewVCD writes the header for a controller with params p. halfPeriod is in
// picoseconds, zero selects DefaultHalfPeriod.
func NewVCD(w io.Writer, p adc.Params, halfPeriod int) (*VCD, error) {
	if halfPeriod <= 0 {
		halfPeriod = DefaultHalfPeriod
	}
	v := &VCD{
		w:          bufio.NewWriter(w),
		halfPeriod: uint64(halfPeriod),
	}
	add := func(width int, name string) {
		v.vars = append(v.vars, &vcdVar{id: vcdID(len(v.vars)), width: width, name: name})
	}
	for _, name := range []string{"start", "cnv", "sck", "clkout", "reading", "done", "update"} {
		add(1, name)
	}
	add(phaseBits, "phase")
	for pin := 0; pin < p.Lanes; pin++ {
		add(1, fmt.Sprintf("sdo%c", 'a'+pin%26))
	}
	for ch := 0; ch < p.Channels; ch++ {
		add(p.Width, fmt.Sprintf("data%d", ch))
	}

	fmt.Fprintf(v.w, "$version go-adcsim $end\n")
	fmt.Fprintf(v.w, "$comment %s $end\n", p)
	fmt.Fprintf(v.w, "$timescale 1ps $end\n")
	fmt.Fprintf(v.w, "$scope module adc $end\n")
	for _, x := range v.vars {
		fmt.Fprintf(v.w, "$var wire %d %s %s $end\n", x.width, x.id, x.name)
	}
	fmt.Fprintf(v.w, "$upscope $end\n")
	_, err := fmt.Fprintf(v.w, "$enddefinitions $end\n")
	return v, err
}

func bit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func vector(v uint64, width int) string {
	s := strings.Builder{}
	s.WriteByte('b')
	for b := width - 1; b >= 0; b-- {
		s.WriteString(bit(v>>b&1 == 1))
	}
	return s.String()
}

// Sample records the changed values of s.
func (v *VCD) Sample(s *Sample) {
	if v.err != nil {
		return
	}
	values := []string{
		bit(s.Start), bit(s.Convert), bit(s.SCK), bit(s.CLKOUT),
		bit(s.Reading), bit(s.Done), bit(s.Update),
		vector(uint64(s.Phase), phaseBits),
	}
	for _, level := range s.SDO {
		values = append(values, bit(level))
	}
	for _, d := range s.Data {
		if len(values) >= len(v.vars) {
			break
		}
		values = append(values, vector(uint64(uint32(d)), v.vars[len(values)].width))
	}

	timestamp := false
	for i, x := range v.vars {
		if i >= len(values) || values[i] == x.last {
			continue
		}
		if !timestamp {
			if _, v.err = fmt.Fprintf(v.w, "#%d\n", s.Time*v.halfPeriod); v.err != nil {
				return
			}
			timestamp = true
		}
		x.last = values[i]
		if x.width == 1 {
			_, v.err = fmt.Fprintf(v.w, "%s%s\n", values[i], x.id)
		} else {
			_, v.err = fmt.Fprintf(v.w, "%s %s\n", values[i], x.id)
		}
		if v.err != nil {
			return
		}
	}
}

// Close flushes the dump and returns the first write error
func (v *VCD) Close() error {
	if v.err != nil {
		return v.err
	}
	return v.w.Flush()
}
