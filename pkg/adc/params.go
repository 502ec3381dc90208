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
	"fmt"
)

const (
	// BitCycles is the number of controller clock cycles per serial bit.
	// The bit clock is synthesized with a period of three controller cycles.
	BitCycles = 3
	// MaxWidth is the widest sample the published words can hold.
	MaxWidth = 32
)

// Params describes the converter wiring and its timings. All times are in
// controller clock cycles. Params are fixed for the lifetime of a Controller.
type Params struct {
	// Channels is the total number of channels
	Channels int `json:"channels"`
	// Lanes is the number of serial data lanes (SDO). Lanes must be named
	// contiguously on the board and evenly divide Channels.
	Lanes int `json:"lanes"`
	// Width is the number of bits transferred per channel
	Width int `json:"width"`
	// TCnvh is the minimum CNV high duration
	TCnvh int `json:"t_cnvh"`
	// TConv is the minimum conversion duration
	TConv int `json:"t_conv"`
	// TRtt is an upper estimate of the round trip time from SCK leaving the
	// controller to CLKOUT arriving back.
	TRtt int `json:"t_rtt"`
}

// ChannelsPerLane returns the number of channel words carried by each lane.
func (p Params) ChannelsPerLane() int {
	return p.Channels / p.Lanes
}

// ReadDuration returns the number of cycles the bit clock runs for.
func (p Params) ReadDuration() int {
	return BitCycles * p.Width * p.Channels / p.Lanes
}

// Depth returns the length in bits of each lane shift register.
func (p Params) Depth() int {
	return 2 * p.ReadDuration()
}

// Duration returns the number of cycles the controller spends in a phase.
// IDLE has no fixed duration and returns 0.
func (p Params) Duration(ph Phase) int {
	switch ph {
	case PhaseCnvh:
		return p.TCnvh
	case PhaseConv:
		return p.TConv
	case PhaseRead:
		return p.ReadDuration()
	case PhaseRtt:
		return p.TRtt
	}
	return 0
}

// Reload returns the counter value loaded while the controller is in phase
// ph. It is the duration of the following phase minus one, so the value
// only takes effect on the cycle the counter reaches zero. RTT returns to
// IDLE which loads zero.
func (p Params) Reload(ph Phase) int {
	if d := p.Duration(ph.Next()); d > 0 {
		return d - 1
	}
	return 0
}

// Acquisition returns the number of cycles from the cycle after a start
// pulse until the controller is idle again.
func (p Params) Acquisition() int {
	return p.TCnvh + p.TConv + p.ReadDuration() + p.TRtt
}

// Validate checks the positivity and divisibility constraints.
func (p Params) Validate() error {
	if p.Channels <= 0 {
		return ErrInvalidParams{Field: "channels", What: fmt.Sprintf("must be positive, got %d", p.Channels)}
	}
	if p.Lanes <= 0 {
		return ErrInvalidParams{Field: "lanes", What: fmt.Sprintf("must be positive, got %d", p.Lanes)}
	}
	if p.Width <= 0 || p.Width > MaxWidth {
		return ErrInvalidParams{Field: "width", What: fmt.Sprintf("must be in 1..%d, got %d", MaxWidth, p.Width)}
	}
	if p.Channels%p.Lanes != 0 {
		return ErrInvalidParams{Field: "lanes", What: fmt.Sprintf("%d lanes do not divide %d channels", p.Lanes, p.Channels)}
	}
	if p.Lanes*p.ReadDuration() != BitCycles*p.Width*p.Channels {
		return ErrInvalidParams{Field: "lanes", What: "read duration is not a whole number of cycles per lane"}
	}
	if p.TCnvh <= 0 {
		return ErrInvalidParams{Field: "t_cnvh", What: fmt.Sprintf("must be positive, got %d", p.TCnvh)}
	}
	if p.TConv <= 1 {
		return ErrInvalidParams{Field: "t_conv", What: fmt.Sprintf("must be greater than 1, got %d", p.TConv)}
	}
	if p.TRtt <= 0 {
		return ErrInvalidParams{Field: "t_rtt", What: fmt.Sprintf("must be positive, got %d", p.TRtt)}
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("channels=%d lanes=%d width=%d t_cnvh=%d t_conv=%d t_rtt=%d",
		p.Channels, p.Lanes, p.Width, p.TCnvh, p.TConv, p.TRtt)
}
