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
	"fmt"
)

// ErrBusy is returned when an acquisition is requested while the
// controller is not idle.
type ErrBusy struct{}

func (e ErrBusy) Error() string {
	return "Acquisition in progress"
}

// ErrWatchdog is returned when the controller does not return to idle
// within the cycle limit.
type ErrWatchdog struct {
	Cycles int
}

func (e ErrWatchdog) Error() string {
	return fmt.Sprintf("Controller not idle after %d cycles", e.Cycles)
}

// ErrInvalidOption is returned for bench options that can not be simulated.
type ErrInvalidOption struct {
	What string
}

func (e ErrInvalidOption) Error() string {
	return fmt.Sprintf("Invalid bench option: %s", e.What)
}
