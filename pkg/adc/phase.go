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

// Phase is the state of the acquisition state machine.
type Phase int

const (
	// PhaseIdle waits for start, the published data is valid
	PhaseIdle Phase = iota
	// PhaseCnvh holds the convert line high
	PhaseCnvh
	// PhaseConv waits for the conversion to finish
	PhaseConv
	// PhaseRead runs the bit clock
	PhaseRead
	// PhaseRtt waits for the last CLKOUT edge to come back
	PhaseRtt
)

// NumPhases is the number of states of the state machine
const NumPhases = 5

var phaseNames = [NumPhases]string{"IDLE", "CNVH", "CONV", "READ", "RTT"}

func (ph Phase) String() string {
	if ph < 0 || int(ph) >= NumPhases {
		return "UNKNOWN"
	}
	return phaseNames[ph]
}

// Next returns the phase entered when the counter expires in ph.
func (ph Phase) Next() Phase {
	if ph == PhaseRtt {
		return PhaseIdle
	}
	return ph + 1
}
