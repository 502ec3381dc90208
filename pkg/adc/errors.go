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

// ErrInvalidParams is returned when a set of Params can not describe a
// working acquisition core.
type ErrInvalidParams struct {
	Field string
	What  string
}

func (e ErrInvalidParams) Error() string {
	return fmt.Sprintf("Invalid ADC parameter %s: %s", e.Field, e.What)
}
