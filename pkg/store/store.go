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
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"jinr.ru/greenlab/go-adcsim/pkg/layers"
	"jinr.ru/greenlab/go-adcsim/pkg/log"
)

const (
	BucketNamePrefix = "acq_"
)

type ErrNotFound struct {
	What string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("Not found: %s", e.What)
}

// Store keeps published acquisitions as AcqLayer frames, one bucket per device
type Store struct {
	DB *bbolt.DB
}

func Open(path string, deviceNames ...string) (*Store, error) {
	log.Debug("Opening acquisition database: %s", path)
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open database %s", path)
	}
	if err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range deviceNames {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucketName(name))); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not create buckets")
	}
	return &Store{DB: db}, nil
}

func uint32ToByte(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func bucketName(deviceName string) string {
	return fmt.Sprintf("%s%s", BucketNamePrefix, deviceName)
}

func bucket(tx *bbolt.Tx, deviceName string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(bucketName(deviceName)))
	if b == nil {
		return nil, ErrNotFound{What: fmt.Sprintf("bucket %s", bucketName(deviceName))}
	}
	return b, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Put stores the frame under its sequence number, replacing an older one
func (s *Store) Put(deviceName string, acq *layers.AcqLayer) error {
	log.Debug("Storing acquisition: device: %s seq: %d", deviceName, acq.Seq)
	data, err := layers.Encode(acq)
	if err != nil {
		return errors.Wrap(err, "could not encode acquisition")
	}
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, deviceName)
		if err != nil {
			return err
		}
		return b.Put(uint32ToByte(acq.Seq), data)
	})
}

// GetRaw returns the stored frame bytes
func (s *Store) GetRaw(deviceName string, seq uint32) ([]byte, error) {
	var data []byte
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, deviceName)
		if err != nil {
			return err
		}
		v := b.Get(uint32ToByte(seq))
		if v == nil {
			return ErrNotFound{What: fmt.Sprintf("acquisition %d", seq)}
		}
		// bbolt values are only valid inside the transaction
		data = append([]byte{}, v...)
		return nil
	}); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *Store) Get(deviceName string, seq uint32) (*layers.AcqLayer, error) {
	data, err := s.GetRaw(deviceName, seq)
	if err != nil {
		return nil, err
	}
	acq, err := layers.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupted acquisition %d", seq)
	}
	return acq, nil
}

// List returns the stored sequence numbers in ascending order
func (s *Store) List(deviceName string) ([]uint32, error) {
	seqs := []uint32{}
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, deviceName)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, _ []byte) error {
			seqs = append(seqs, binary.BigEndian.Uint32(k))
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return seqs, nil
}

// Last returns the sequence number of the newest acquisition, zero if none
func (s *Store) Last(deviceName string) (uint32, error) {
	var seq uint32
	if err := s.DB.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, deviceName)
		if err != nil {
			return err
		}
		if k, _ := b.Cursor().Last(); k != nil {
			seq = binary.BigEndian.Uint32(k)
		}
		return nil
	}); err != nil {
		return 0, err
	}
	return seq, nil
}
