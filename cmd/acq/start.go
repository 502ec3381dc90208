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

package acq

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-adcsim/pkg/command"
	"jinr.ru/greenlab/go-adcsim/pkg/config"
)

func NewStartCommand() *cobra.Command {
	var inputs []int32
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run one acquisition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			acq, err := apiClient.Acquire(inputs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: cycles=%d data=%v\n", acq.Seq, acq.Cycles, acq.Data)
			return nil
		},
	}
	cmd.Flags().Int32SliceVar(&inputs, InputsOptionName, nil, "Converter inputs to set before the acquisition")
	return cmd
}
