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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-adcsim/pkg/adc"
)

type AdcConfig struct {
	Channels int `json:"channels"`
	Lanes    int `json:"lanes"`
	Width    int `json:"width"`
	TCnvh    int `json:"t_cnvh"`
	TConv    int `json:"t_conv"`
	TRtt     int `json:"t_rtt"`
}

type SimConfig struct {
	// ReturnDelay is the SCK to CLKOUT round trip in half controller periods
	ReturnDelay int `json:"return_delay"`
	// MaxCycles is the acquisition watchdog, zero picks a default
	MaxCycles int    `json:"max_cycles,omitempty"`
	VCD       string `json:"vcd,omitempty"`
	// Output is a file receiving the frames of all acquisitions
	Output string `json:"output,omitempty"`
}

type DeviceConfig struct {
	Name   string  `json:"name"`
	Inputs []int32 `json:"inputs,omitempty"`
}

type ApiConfig struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

type Config struct {
	Adc      *AdcConfig    `json:"adc"`
	Sim      *SimConfig    `json:"sim"`
	Device   *DeviceConfig `json:"device"`
	Api      *ApiConfig    `json:"api"`
	DBPath   string        `json:"db_path"`
	LogLevel string        `json:"log_level,omitempty"`

	filepath string
}

func DefaultConfigPath() string {
	return filepath.Join(homeDir(), ConfigDir, ConfigFile)
}

func DefaultDBPath() string {
	return filepath.Join(homeDir(), ConfigDir, DBFile)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return home
}

func NewDefaultConfig() *Config {
	return &Config{
		Adc: &AdcConfig{
			Channels: DefaultChannels,
			Lanes:    DefaultLanes,
			Width:    DefaultWidth,
			TCnvh:    DefaultTCnvh,
			TConv:    DefaultTConv,
			TRtt:     DefaultTRtt,
		},
		Sim: &SimConfig{
			ReturnDelay: DefaultReturnDelay,
		},
		Device: &DeviceConfig{
			Name: DefaultDeviceName,
		},
		Api: &ApiConfig{
			Address: DefaultApiAddress,
			Port:    DefaultApiPort,
		},
		DBPath:   DefaultDBPath(),
		LogLevel: DefaultLogLevel,
		filepath: DefaultConfigPath(),
	}
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) SetPath(path string) {
	c.filepath = path
}

// Load reads the config file over the current values. A missing file
// leaves them untouched.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "could not read config %s", c.filepath)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "could not parse config %s", c.filepath)
	}
	return nil
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.filepath), 0755); err != nil {
		return errors.Wrap(err, "could not create config directory")
	}
	return os.WriteFile(c.filepath, data, 0644)
}

// Params returns the controller parameters, not validated
func (c *Config) Params() adc.Params {
	return adc.Params{
		Channels: c.Adc.Channels,
		Lanes:    c.Adc.Lanes,
		Width:    c.Adc.Width,
		TCnvh:    c.Adc.TCnvh,
		TConv:    c.Adc.TConv,
		TRtt:     c.Adc.TRtt,
	}
}

func (c *Config) ApiEndpoint() string {
	return fmt.Sprintf("%s:%d", c.Api.Address, c.Api.Port)
}

func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err.Error()
	}
	return string(data)
}
