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

package ifc

// Device is a serial ADC seen from its pins. Step is called once per half
// controller clock period with the CNV and SCK levels at the device.
type Device interface {
	GetName() string

	// SetInputs sets the values converted on the next CNV rising edge.
	SetInputs(inputs []int32) error
	Inputs() []int32

	Step(cnv, sck bool)
	// SDO returns the level of every data lane in pin order.
	SDO() []bool

	Conversions() uint64
}
