// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/edgeo-scada/uacore/client"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "List the endpoints an OPC UA server advertises",
	Long: `Query GetEndpoints over a transient, session-less SecureChannel.

Examples:
  opcuacli info -e opc.tcp://localhost:4840`,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	c := client.New(client.WithSyncTimeout(syncTimeout()), client.WithLogger(newLogger()))

	endpoints, err := c.GetEndpoints(endpoint)
	if err != nil {
		return fmt.Errorf("GetEndpoints: %w", err)
	}
	for _, ep := range endpoints {
		fmt.Printf("EndpointURL:       %s\n", ep.EndpointURL)
		fmt.Printf("  Server:          %s (%s)\n", ep.Server.ApplicationName.Text, ep.Server.ApplicationURI)
		fmt.Printf("  SecurityMode:    %v\n", ep.SecurityMode)
		fmt.Printf("  SecurityPolicy:  %s\n", ep.SecurityPolicyURI)
		for _, tok := range ep.UserIdentityTokens {
			fmt.Printf("  UserTokenPolicy: %s (%v)\n", tok.PolicyID, tok.TokenType)
		}
		fmt.Println()
	}
	return nil
}
