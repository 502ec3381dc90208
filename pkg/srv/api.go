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

// go-adcsim API
//
// RESTful API to run acquisitions on a simulated ADC controller
//
// Schemes: http
// Host: localhost:8003
// Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//
// swagger:meta
package srv

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-adcsim/pkg/adc"
	"jinr.ru/greenlab/go-adcsim/pkg/layers"
	"jinr.ru/greenlab/go-adcsim/pkg/log"
	"jinr.ru/greenlab/go-adcsim/pkg/sim"
)

type ParamsResp struct {
	adc.Params
	ReadDuration int `json:"read_duration"`
	Acquisition  int `json:"acquisition"`
}

type Inputs struct {
	Inputs []int32 `json:"inputs"`
}

// AcqRecord is a stored acquisition
type AcqRecord struct {
	Seq      uint32  `json:"seq"`
	Cycles   uint32  `json:"cycles"`
	Width    int     `json:"width"`
	Channels int     `json:"channels"`
	Lanes    int     `json:"lanes"`
	Data     []int32 `json:"data"`
}

func NewAcqRecord(acq *layers.AcqLayer) *AcqRecord {
	return &AcqRecord{
		Seq:      acq.Seq,
		Cycles:   acq.Cycles,
		Width:    int(acq.Width),
		Channels: int(acq.Channels),
		Lanes:    int(acq.Lanes),
		Data:     acq.Samples,
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Could not write response: %s", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed: %s", err)
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix("/api").Subrouter()
	subRouter.HandleFunc("/params", s.handleParams()).Methods("GET")
	subRouter.HandleFunc("/status", s.handleStatus()).Methods("GET")
	subRouter.HandleFunc("/acquire", s.handleAcquire()).Methods("POST")
	subRouter.HandleFunc("/acq", s.handleAcqList()).Methods("GET")
	subRouter.HandleFunc("/acq/{seq:[0-9]+}", s.handleAcqGet()).Methods("GET")
	subRouter.HandleFunc("/acq/{seq:[0-9]+}/raw", s.handleAcqRaw()).Methods("GET")
	subRouter.HandleFunc("/inputs", s.handleInputsGet()).Methods("GET")
	subRouter.HandleFunc("/inputs", s.handleInputsSet()).Methods("PUT")

	s.Router.Handle("/swagger.json", middleware.Spec("/", swaggerJSON, http.NotFoundHandler())).Methods("GET")
	s.Router.Handle("/docs", middleware.Redoc(middleware.RedocOpts{
		Path:    "docs",
		SpecURL: "/swagger.json",
		Title:   s.doc.Spec().Info.Title,
	}, http.NotFoundHandler())).Methods("GET")
}

func parseSeq(r *http.Request) (uint32, error) {
	seq, err := strconv.ParseUint(mux.Vars(r)["seq"], 10, 32)
	if err != nil {
		return 0, ErrBadRequest{What: err.Error()}
	}
	return uint32(seq), nil
}

func (s *Server) handleParams() http.HandlerFunc {
	p := s.Params()
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, &ParamsResp{
			Params:       p,
			ReadDuration: p.ReadDuration(),
			Acquisition:  p.Acquisition(),
		})
	}
}

func (s *Server) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, s.getStatus())
	}
}

func (s *Server) handleAcquire() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inputs := &Inputs{}
		if err := json.NewDecoder(r.Body).Decode(inputs); err != nil && err != io.EOF {
			writeError(w, ErrBadRequest{What: err.Error()})
			return
		}
		if !s.tryBusy() {
			writeError(w, sim.ErrBusy{})
			return
		}
		defer s.release()

		var acq *sim.Acquisition
		err := s.submit(r.Context(), func(ctx context.Context, b *sim.Bench) error {
			if len(inputs.Inputs) > 0 {
				if err := b.Device().SetInputs(inputs.Inputs); err != nil {
					return err
				}
			}
			var err error
			if acq, err = b.Acquire(ctx); err != nil {
				return err
			}
			return s.store.Put(s.device, acq.Layer(b.Controller().Params()))
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, acq)
	}
}

func (s *Server) handleAcqList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seqs, err := s.store.List(s.device)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, seqs)
	}
}

func (s *Server) handleAcqGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq, err := parseSeq(r)
		if err != nil {
			writeError(w, err)
			return
		}
		acq, err := s.store.Get(s.device, seq)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, NewAcqRecord(acq))
	}
}

func (s *Server) handleAcqRaw() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seq, err := parseSeq(r)
		if err != nil {
			writeError(w, err)
			return
		}
		data, err := s.store.GetRaw(s.device, seq)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(data)
	}
}

func (s *Server) handleInputsGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inputs := &Inputs{}
		if err := s.submit(r.Context(), func(_ context.Context, b *sim.Bench) error {
			inputs.Inputs = b.Device().Inputs()
			return nil
		}); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, inputs)
	}
}

func (s *Server) handleInputsSet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inputs := &Inputs{}
		if err := json.NewDecoder(r.Body).Decode(inputs); err != nil {
			writeError(w, ErrBadRequest{What: err.Error()})
			return
		}
		if err := s.submit(r.Context(), func(_ context.Context, b *sim.Bench) error {
			return b.Device().SetInputs(inputs.Inputs)
		}); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, inputs)
	}
}
