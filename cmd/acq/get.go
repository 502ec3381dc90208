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
	"strconv"

	"github.com/spf13/cobra"

	"jinr.ru/greenlab/go-adcsim/pkg/command"
	"jinr.ru/greenlab/go-adcsim/pkg/config"
)

func NewGetCommand() *cobra.Command {
	var raw bool
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "get <seq>",
		Short: "Print a stored acquisition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("Wrong sequence number %q", args[0])
			}
			apiClient := command.NewApiClient(cfg)
			if raw {
				data, err := apiClient.GetRaw(uint32(seq))
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			record, err := apiClient.Get(uint32(seq))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d: cycles=%d width=%d lanes=%d data=%v\n",
				record.Seq, record.Cycles, record.Width, record.Lanes, record.Data)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, RawOptionName, false, "Write the binary frame instead")
	return cmd
}
