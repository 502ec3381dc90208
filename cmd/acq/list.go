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

func NewListCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.Load()
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored acquisitions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiClient := command.NewApiClient(cfg)
			seqs, err := apiClient.List()
			if err != nil {
				return err
			}
			for _, seq := range seqs {
				fmt.Fprintln(cmd.OutOrStdout(), seq)
			}
			return nil
		},
	}
	return cmd
}
