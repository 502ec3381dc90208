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

package srv

import (
	"net/http"

	"github.com/pkg/errors"

	"jinr.ru/greenlab/go-adcsim/pkg/adc"
	"jinr.ru/greenlab/go-adcsim/pkg/device/ltc2320"
	"jinr.ru/greenlab/go-adcsim/pkg/sim"
	"jinr.ru/greenlab/go-adcsim/pkg/store"
)

type ErrBadRequest struct {
	What string
}

func (e ErrBadRequest) Error() string {
	return "Bad request: " + e.What
}

// httpStatus maps errors coming from the bench and the store to status codes
func httpStatus(err error) int {
	switch errors.Cause(err).(type) {
	case ErrBadRequest, adc.ErrInvalidParams, ltc2320.ErrInputs:
		return http.StatusBadRequest
	case store.ErrNotFound:
		return http.StatusNotFound
	case sim.ErrBusy:
		return http.StatusConflict
	case sim.ErrWatchdog:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
