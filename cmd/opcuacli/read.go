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
	"github.com/edgeo-scada/uacore/pkg/ua"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read values from OPC UA nodes",
	Long: `Read attribute values from OPC UA nodes over a Session.

Examples:
  opcuacli read -e opc.tcp://localhost:4840 -n "ns=2;i=1"
  opcuacli read -e opc.tcp://localhost:4840 -n "ns=2;s=Temperature" -a Value
  opcuacli read -e opc.tcp://localhost:4840 -n "i=2258" -n "i=2259"`,
	RunE: runRead,
}

var (
	readNodeIDs   []string
	readAttribute string
)

func init() {
	readCmd.Flags().StringArrayVarP(&readNodeIDs, "node", "n", nil, "Node ID(s) to read (can specify multiple)")
	readCmd.Flags().StringVarP(&readAttribute, "attribute", "a", "Value", "Attribute to read: NodeId, NodeClass, BrowseName, DisplayName, Value, DataType, etc.")
	readCmd.MarkFlagRequired("node")
}

func runRead(cmd *cobra.Command, args []string) error {
	if len(readNodeIDs) == 0 {
		return fmt.Errorf("at least one --node is required")
	}

	c := client.New(client.WithSyncTimeout(syncTimeout()), client.WithLogger(newLogger()))
	if err := c.Connect(endpoint); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer c.Disconnect()

	attrID := parseAttributeID(readAttribute)
	nodesToRead := make([]ua.ReadValueID, len(readNodeIDs))
	for i, s := range readNodeIDs {
		nodeID, err := parseNodeID(s)
		if err != nil {
			return fmt.Errorf("invalid node id %q: %w", s, err)
		}
		nodesToRead[i] = ua.ReadValueID{NodeID: nodeID, AttributeID: attrID}
	}

	resp, err := c.Read(&ua.ReadRequest{NodesToRead: nodesToRead})
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	if resp.ResponseHeader.ServiceResult.IsBad() {
		return fmt.Errorf("read: %s", resp.ResponseHeader.ServiceResult)
	}

	for i, result := range resp.Results {
		fmt.Printf("Node: %s\n", readNodeIDs[i])
		fmt.Printf("  Attribute: %s\n", readAttribute)
		if result.StatusCode.IsBad() {
			fmt.Printf("  Status: %s\n", result.StatusCode)
		} else {
			if result.HasValue {
				fmt.Printf("  Value: %v\n", variantValue(result.Value))
				fmt.Printf("  Type:  %s\n", typeName(result.Value.TypeID))
			} else {
				fmt.Println("  Value: <null>")
			}
			fmt.Printf("  Status: %s\n", result.StatusCode)
		}
		fmt.Println()
	}
	return nil
}
