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

package layers

import (
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// AcqLayerNum identifies the layer
	AcqLayerNum = 2001
	// AcqMagic is the first word of every acquisition frame ("AD")
	AcqMagic = 0x4144
	// AcqVersion is the current frame version
	AcqVersion = 1
	// AcqHeaderLen is the size of the frame header in bytes
	AcqHeaderLen = 16
	// AcqSampleLen is the size of one sample in bytes
	AcqSampleLen = 4
)

// ErrDecode is returned for frames that can not be decoded
type ErrDecode struct {
	What string
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("Error while decoding acquisition frame: %s", e.What)
}

// AcqHeader precedes the samples of one acquisition.
type AcqHeader struct {
	Magic    uint16
	Version  uint8
	Width    uint8
	Channels uint16
	Lanes    uint16
	Seq      uint32
	Cycles   uint32
}

// AcqLayer is one published acquisition: a header and one signed sample per
// channel.
type AcqLayer struct {
	layers.BaseLayer
	AcqHeader
	Samples []int32
}

var AcqLayerType = gopacket.RegisterLayerType(AcqLayerNum,
	gopacket.LayerTypeMetadata{Name: "AcqLayerType", Decoder: gopacket.DecodeFunc(DecodeAcqLayer)})

// NewAcqLayer builds a frame for the published samples of acquisition seq.
func NewAcqLayer(seq, cycles uint32, width, lanes int, samples []int32) *AcqLayer {
	s := make([]int32, len(samples))
	copy(s, samples)
	return &AcqLayer{
		AcqHeader: AcqHeader{
			Magic:    AcqMagic,
			Version:  AcqVersion,
			Width:    uint8(width),
			Channels: uint16(len(samples)),
			Lanes:    uint16(lanes),
			Seq:      seq,
			Cycles:   cycles,
		},
		Samples: s,
	}
}

// LayerType returns the type of the acquisition layer in the layer catalog
func (acq *AcqLayer) LayerType() gopacket.LayerType {
	return AcqLayerType
}

// Len returns the size of the serialized frame in bytes
func (acq *AcqLayer) Len() int {
	return AcqHeaderLen + AcqSampleLen*len(acq.Samples)
}

// Serialize writes the frame to buf which must hold at least Len bytes.
func (acq *AcqLayer) Serialize(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], acq.Magic)
	buf[2] = acq.Version
	buf[3] = acq.Width
	binary.LittleEndian.PutUint16(buf[4:6], uint16(len(acq.Samples)))
	binary.LittleEndian.PutUint16(buf[6:8], acq.Lanes)
	binary.LittleEndian.PutUint32(buf[8:12], acq.Seq)
	binary.LittleEndian.PutUint32(buf[12:16], acq.Cycles)
	for i, s := range acq.Samples {
		offset := AcqHeaderLen + i*AcqSampleLen
		binary.LittleEndian.PutUint32(buf[offset:offset+AcqSampleLen], uint32(s))
	}
}

// SerializeTo serializes the frame into bytes and writes the bytes to the SerializeBuffer
func (acq *AcqLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.AppendBytes(acq.Len())
	if err != nil {
		return err
	}
	acq.Serialize(bytes)
	return nil
}

// DecodeFromBytes attempts to decode the byte slice as an acquisition frame
func (acq *AcqLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < AcqHeaderLen {
		df.SetTruncated()
		return ErrDecode{What: fmt.Sprintf("frame too short: %d bytes", len(data))}
	}
	magic := binary.LittleEndian.Uint16(data[0:2])
	if magic != AcqMagic {
		return ErrDecode{What: fmt.Sprintf("wrong magic 0x%04x, must be 0x%04x", magic, AcqMagic)}
	}
	channels := int(binary.LittleEndian.Uint16(data[4:6]))
	size := AcqHeaderLen + channels*AcqSampleLen
	if len(data) < size {
		df.SetTruncated()
		return ErrDecode{What: fmt.Sprintf("%d channels need %d bytes, got %d", channels, size, len(data))}
	}

	acq.BaseLayer = layers.BaseLayer{
		Contents: data[:size],
		Payload:  data[size:],
	}
	acq.Magic = magic
	acq.Version = data[2]
	acq.Width = data[3]
	acq.Channels = uint16(channels)
	acq.Lanes = binary.LittleEndian.Uint16(data[6:8])
	acq.Seq = binary.LittleEndian.Uint32(data[8:12])
	acq.Cycles = binary.LittleEndian.Uint32(data[12:16])
	acq.Samples = make([]int32, channels)
	for i := range acq.Samples {
		offset := AcqHeaderLen + i*AcqSampleLen
		acq.Samples[i] = int32(binary.LittleEndian.Uint32(data[offset : offset+AcqSampleLen]))
	}
	return nil
}

func (acq *AcqLayer) CanDecode() gopacket.LayerClass {
	return AcqLayerType
}

func (acq *AcqLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

func DecodeAcqLayer(data []byte, p gopacket.PacketBuilder) error {
	acq := &AcqLayer{}
	err := acq.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(acq)
	return nil
}

// Encode serializes a frame into a fresh byte slice
func Encode(acq *AcqLayer) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, acq); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a frame produced by Encode
func Decode(data []byte) (*AcqLayer, error) {
	packet := gopacket.NewPacket(data, AcqLayerType, gopacket.Default)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		return nil, errLayer.Error()
	}
	layer := packet.Layer(AcqLayerType)
	if layer == nil {
		return nil, ErrDecode{What: "no acquisition layer"}
	}
	return layer.(*AcqLayer), nil
}

// DecodeAll parses back to back frames, e.g. the content of a frame file
func DecodeAll(data []byte) ([]*AcqLayer, error) {
	var frames []*AcqLayer
	for len(data) > 0 {
		acq, err := Decode(data)
		if err != nil {
			return frames, err
		}
		frames = append(frames, acq)
		data = acq.LayerPayload()
	}
	return frames, nil
}
