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
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-adcsim/pkg/command"
	"jinr.ru/greenlab/go-adcsim/pkg/config"
)

const (
	CountOptionName       = "count"
	VCDOptionName         = "vcd"
	OutOptionName         = "out"
	InputsOptionName      = "inputs"
	ReturnDelayOptionName = "return-delay"
)

func NewRunCommand() *cobra.Command {
	var count, returnDelay int
	var vcd, output string
	var inputs []int32
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run acquisitions and print the published words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("Number of acquisitions must be positive, got %d", count)
			}
			if vcd != "" {
				cfg.Sim.VCD = vcd
			}
			if output != "" {
				cfg.Sim.Output = output
			}
			if len(inputs) > 0 {
				cfg.Device.Inputs = inputs
			}
			if returnDelay >= 0 {
				cfg.Sim.ReturnDelay = returnDelay
			}
			return command.RunSimulation(cmd.Context(), cfg, count, cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&count, CountOptionName, "n", 1, "Number of acquisitions")
	cmd.Flags().StringVar(&vcd, VCDOptionName, "", "Write a VCD trace to this file")
	cmd.Flags().StringVar(&output, OutOptionName, "", "Write acquisition frames to this file")
	cmd.Flags().Int32SliceVar(&inputs, InputsOptionName, nil, "Converter inputs, one signed code per channel. E.g. 1,-2,3")
	cmd.Flags().IntVar(&returnDelay, ReturnDelayOptionName, -1,
		fmt.Sprintf("SCK to CLKOUT round trip in half periods. E.g. %d", config.DefaultReturnDelay))
	return cmd
}
