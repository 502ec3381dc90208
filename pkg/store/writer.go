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

package store

import (
	"os"

	"github.com/pkg/errors"

	"jinr.ru/greenlab/go-adcsim/pkg/layers"
	"jinr.ru/greenlab/go-adcsim/pkg/log"
)

// Writer appends acquisition frames to a file
type Writer struct {
	file   *os.File
	frames int
}

func NewWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		log.Error("Error while creating file: %s", filename)
		return nil, errors.Wrap(err, "could not create frame file")
	}
	return &Writer{
		file: file,
	}, nil
}

func (w *Writer) Write(acq *layers.AcqLayer) error {
	data, err := layers.Encode(acq)
	if err != nil {
		return err
	}
	if _, err := w.file.Write(data); err != nil {
		return errors.Wrapf(err, "could not write frame %d", acq.Seq)
	}
	w.frames++
	return nil
}

func (w *Writer) Frames() int {
	return w.frames
}

func (w *Writer) Flush() error {
	log.Debug("Closing frame file %s after %d frames", w.file.Name(), w.frames)
	if err := w.file.Sync(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

// ReadFile returns all frames stored in a frame file
func ReadFile(filename string) ([]*layers.AcqLayer, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return layers.DecodeAll(data)
}
