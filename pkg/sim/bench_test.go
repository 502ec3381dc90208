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
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"

	"jinr.ru/greenlab/go-adcsim/pkg/adc"
	"jinr.ru/greenlab/go-adcsim/pkg/config"
	"jinr.ru/greenlab/go-adcsim/pkg/device/ltc2320"
)

// the reference wiring: LTC2320-16 on two lanes
var refParams = adc.Params{Channels: 8, Lanes: 2, Width: 16, TCnvh: 5, TConv: 57, TRtt: 5}

var refInputs = []int32{0x1234, -0x1234, 1, -1, 32767, -32768, 0, -21846}

type recorder struct {
	samples []Sample
}

func (r *recorder) Sample(s *Sample) {
	r.samples = append(r.samples, *s)
}

func newTestBench(t *testing.T, p adc.Params, opts Options) *Bench {
	t.Helper()
	ctrl, err := adc.NewController(p)
	if err != nil {
		t.Fatalf("could not create controller: %+v", err)
	}
	dev, err := ltc2320.New("", p)
	if err != nil {
		t.Fatalf("could not create device: %+v", err)
	}
	b, err := NewBench(ctrl, dev, opts)
	if err != nil {
		t.Fatalf("could not create bench: %+v", err)
	}
	return b
}

func TestBenchReference(t *testing.T) {
	rec := &recorder{}
	b := newTestBench(t, refParams, Options{ReturnDelay: DefaultReturnDelay, Probe: rec})
	if err := b.Device().SetInputs(refInputs); err != nil {
		t.Fatalf("could not set inputs: %+v", err)
	}
	b.Idle(3)
	if !b.Controller().Done() {
		t.Fatalf("done must be high before start")
	}

	acq, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("could not acquire: %+v", err)
	}
	if !b.Controller().Done() {
		t.Fatalf("done must be high after the update")
	}
	if !reflect.DeepEqual(acq.Data, refInputs) {
		t.Fatalf("invalid data:\ngot= %v\nwant=%v", acq.Data, refInputs)
	}
	for i, raw := range acq.Raw {
		if want := adc.Negate(refInputs[i], refParams.Width); raw != want {
			t.Fatalf("invalid raw word %d: got=%d, want=%d", i, raw, want)
		}
	}
	if got, want := acq.Cycles, refParams.Acquisition(); got != want {
		t.Fatalf("invalid acquisition length: got=%d, want=%d", got, want)
	}
	if got, want := acq.UpdateCycle-acq.StartCycle, uint64(refParams.Acquisition()-1); got != want {
		t.Fatalf("invalid update cycle: got=%d, want=%d", got, want)
	}
	if acq.Seq != 1 || b.Seq() != 1 {
		t.Fatalf("invalid sequence number: %d", acq.Seq)
	}

	var rising, convert int
	prev := true
	for _, s := range rec.samples {
		if s.CLKOUT && !prev {
			rising++
		}
		prev = s.CLKOUT
		if s.Convert {
			convert++
		}
	}
	if want := refParams.ChannelsPerLane() * refParams.Width; rising != want {
		t.Fatalf("invalid number of CLKOUT edges: got=%d, want=%d", rising, want)
	}
	if want := 2 * refParams.TCnvh; convert != want {
		t.Fatalf("invalid CNV high time: got=%d half periods, want=%d", convert, want)
	}
	if got := b.Device().Conversions(); got != 1 {
		t.Fatalf("invalid number of conversions: got=%d, want=1", got)
	}
}

func TestBenchReturnDelay(t *testing.T) {
	p := refParams
	for delay := 0; delay <= 2*p.TRtt; delay++ {
		b := newTestBench(t, p, Options{ReturnDelay: delay})
		if err := b.Device().SetInputs(refInputs); err != nil {
			t.Fatalf("could not set inputs: %+v", err)
		}
		acq, err := b.Acquire(context.Background())
		if err != nil {
			t.Fatalf("delay %d: could not acquire: %+v", delay, err)
		}
		if !reflect.DeepEqual(acq.Data, refInputs) {
			t.Fatalf("delay %d: invalid data:\ngot= %v\nwant=%v", delay, acq.Data, refInputs)
		}
	}
}

func TestBenchMarginViolation(t *testing.T) {
	p := refParams
	b := newTestBench(t, p, Options{ReturnDelay: 2*p.TRtt + 1})
	// odd values so the missing last bit shows up in every channel
	inputs := []int32{1, 3, 5, 7, 9, 11, 13, 15}
	if err := b.Device().SetInputs(inputs); err != nil {
		t.Fatalf("could not set inputs: %+v", err)
	}
	acq, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("could not acquire: %+v", err)
	}
	if reflect.DeepEqual(acq.Data, inputs) {
		t.Fatalf("late CLKOUT edges must corrupt the samples")
	}
}

func TestBenchIdempotent(t *testing.T) {
	p := adc.Params{Channels: 6, Lanes: 3, Width: 12, TCnvh: 3, TConv: 10, TRtt: 7}
	b := newTestBench(t, p, Options{ReturnDelay: 9})
	inputs := []int32{-2048, 2047, 100, -100, 0, 1}
	if err := b.Device().SetInputs(inputs); err != nil {
		t.Fatalf("could not set inputs: %+v", err)
	}
	var seqs []uint32
	err := b.Run(context.Background(), 5, func(acq *Acquisition) error {
		seqs = append(seqs, acq.Seq)
		if !reflect.DeepEqual(acq.Data, inputs) {
			t.Fatalf("acquisition %d: invalid data:\ngot= %v\nwant=%v", acq.Seq, acq.Data, inputs)
		}
		b.Idle(int(acq.Seq))
		return nil
	})
	if err != nil {
		t.Fatalf("could not run: %+v", err)
	}
	if want := []uint32{1, 2, 3, 4, 5}; !reflect.DeepEqual(seqs, want) {
		t.Fatalf("invalid sequence numbers: got=%v, want=%v", seqs, want)
	}
}

func TestBenchCancel(t *testing.T) {
	b := newTestBench(t, refParams, Options{})
	if err := b.Device().SetInputs(refInputs); err != nil {
		t.Fatalf("could not set inputs: %+v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.Acquire(ctx); err != context.Canceled {
		t.Fatalf("invalid error: got=%v, want=%v", err, context.Canceled)
	}
	if !b.Controller().Done() {
		t.Fatalf("controller must be idle after a cancelled acquisition, phase %s", b.Controller().Phase())
	}
	if b.Seq() != 0 {
		t.Fatalf("a cancelled acquisition must not be numbered: seq=%d", b.Seq())
	}

	acq, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("could not acquire after a cancel: %+v", err)
	}
	if acq.Seq != 1 || !reflect.DeepEqual(acq.Data, refInputs) {
		t.Fatalf("invalid acquisition after a cancel: seq=%d data=%v", acq.Seq, acq.Data)
	}
}

func TestBenchBusy(t *testing.T) {
	b := newTestBench(t, refParams, Options{})
	b.Controller().SetStart(true)
	b.Tick()
	b.Controller().SetStart(false)
	if _, err := b.Acquire(context.Background()); err == nil {
		t.Fatalf("expected a busy error")
	} else if _, ok := err.(ErrBusy); !ok {
		t.Fatalf("invalid error: got=%T, want=%T", err, ErrBusy{})
	}
}

func TestBenchWatchdog(t *testing.T) {
	b := newTestBench(t, refParams, Options{MaxCycles: 10})
	_, err := b.Acquire(context.Background())
	if _, ok := err.(ErrWatchdog); !ok {
		t.Fatalf("invalid error: got=%v, want=%T", err, ErrWatchdog{})
	}
}

func TestBenchOptions(t *testing.T) {
	ctrl, err := adc.NewController(refParams)
	if err != nil {
		t.Fatalf("could not create controller: %+v", err)
	}
	dev, err := ltc2320.New("", refParams)
	if err != nil {
		t.Fatalf("could not create device: %+v", err)
	}
	for _, opts := range []Options{{ReturnDelay: -1}, {MaxCycles: -1}} {
		if _, err := NewBench(ctrl, dev, opts); err == nil {
			t.Fatalf("expected an error for %+v", opts)
		}
	}
}

func TestVCD(t *testing.T) {
	p := adc.Params{Channels: 2, Lanes: 2, Width: 4, TCnvh: 1, TConv: 2, TRtt: 2}
	out := &bytes.Buffer{}
	vcd, err := NewVCD(out, p, 0)
	if err != nil {
		t.Fatalf("could not create vcd: %+v", err)
	}
	b := newTestBench(t, p, Options{ReturnDelay: 2, Probe: vcd})
	if err := b.Device().SetInputs([]int32{3, -5}); err != nil {
		t.Fatalf("could not set inputs: %+v", err)
	}
	if _, err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("could not acquire: %+v", err)
	}
	if err := vcd.Close(); err != nil {
		t.Fatalf("could not close vcd: %+v", err)
	}

	dump := out.String()
	for _, want := range []string{
		"$timescale 1ps $end",
		"$var wire 1 ! start $end",
		"$var wire 3 ( phase $end",
		"$var wire 1 ) sdoa $end",
		"$var wire 4 , data1 $end",
		"$enddefinitions $end",
		"#0\n",
		"b0011 +",
		"b1011 ,",
	} {
		if !strings.Contains(dump, want) {
			t.Fatalf("dump does not contain %q:\n%s", want, dump)
		}
	}
}

func TestVCDIdentifiers(t *testing.T) {
	for n, want := range map[int]string{0: "!", 1: "\"", 93: "~", 94: "!\"", 95: "\"\""} {
		if got := vcdID(n); got != want {
			t.Fatalf("invalid identifier for %d: got=%q, want=%q", n, got, want)
		}
	}
}

func TestDelayLine(t *testing.T) {
	l := newDelayLine(2, 1)
	in := []bool{false, true, false, false, true}
	want := []bool{true, true, false, true, false}
	for i, clk := range in {
		if got := l.push(edge{clk: clk, sdo: []bool{clk}}); got.clk != want[i] {
			t.Fatalf("invalid output at step %d: got=%v, want=%v", i, got.clk, want[i])
		}
	}
	if got := newDelayLine(0, 1).push(edge{clk: false}); got.clk {
		t.Fatalf("zero delay must pass through")
	}
}

func TestNewBenchFromConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Device.Inputs = refInputs
	b, err := NewBenchFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("could not create bench: %+v", err)
	}
	acq, err := b.Acquire(context.Background())
	if err != nil {
		t.Fatalf("could not acquire: %+v", err)
	}
	if !reflect.DeepEqual(acq.Data, refInputs) {
		t.Fatalf("invalid data:\ngot= %v\nwant=%v", acq.Data, refInputs)
	}

	cfg.Adc.Lanes = 3
	if _, err := NewBenchFromConfig(cfg, nil); err == nil {
		t.Fatalf("expected an error for 3 lanes and 8 channels")
	}
}
