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

package command

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/imroc/req"
	"github.com/pkg/errors"

	"jinr.ru/greenlab/go-adcsim/pkg/config"
	"jinr.ru/greenlab/go-adcsim/pkg/srv"
	"jinr.ru/greenlab/go-adcsim/pkg/sim"
)

type ApiClient struct {
	*config.Config
	ApiPrefix string
}

func NewApiClient(cfg *config.Config) *ApiClient {
	return &ApiClient{
		Config:    cfg,
		ApiPrefix: fmt.Sprintf("http://%s/api", cfg.ApiEndpoint()),
	}
}

func (c *ApiClient) url(format string, v ...interface{}) string {
	return c.ApiPrefix + fmt.Sprintf(format, v...)
}

// check turns a non 200 response into an error carrying the server message
func check(r *req.Resp) error {
	if r.Response().StatusCode != http.StatusOK {
		return errors.Errorf("%s: %s", r.Response().Status, strings.TrimSpace(r.String()))
	}
	return nil
}

func (c *ApiClient) Params() (*srv.ParamsResp, error) {
	r, err := req.Get(c.url("/params"))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	params := &srv.ParamsResp{}
	return params, r.ToJSON(params)
}

func (c *ApiClient) Status() (*srv.Status, error) {
	r, err := req.Get(c.url("/status"))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	status := &srv.Status{}
	return status, r.ToJSON(status)
}

// Acquire runs one acquisition on the server, with new inputs if any are given
func (c *ApiClient) Acquire(inputs []int32) (*sim.Acquisition, error) {
	r, err := req.Post(c.url("/acquire"), req.BodyJSON(&srv.Inputs{Inputs: inputs}))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	acq := &sim.Acquisition{}
	return acq, r.ToJSON(acq)
}

func (c *ApiClient) Get(seq uint32) (*srv.AcqRecord, error) {
	r, err := req.Get(c.url("/acq/%d", seq))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	record := &srv.AcqRecord{}
	return record, r.ToJSON(record)
}

// GetRaw returns the stored frame of an acquisition
func (c *ApiClient) GetRaw(seq uint32) ([]byte, error) {
	r, err := req.Get(c.url("/acq/%d/raw", seq))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	return r.ToBytes()
}

func (c *ApiClient) List() ([]uint32, error) {
	r, err := req.Get(c.url("/acq"))
	if err != nil {
		return nil, err
	}
	if err := check(r); err != nil {
		return nil, err
	}
	var seqs []uint32
	return seqs, r.ToJSON(&seqs)
}

func (c *ApiClient) SetInputs(inputs []int32) error {
	r, err := req.Put(c.url("/inputs"), req.BodyJSON(&srv.Inputs{Inputs: inputs}))
	if err != nil {
		return err
	}
	return check(r)
}
