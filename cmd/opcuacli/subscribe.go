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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgeo-scada/uacore/client"
	"github.com/edgeo-scada/uacore/pkg/ua"
	"github.com/spf13/cobra"
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Subscribe to data changes on OPC UA nodes",
	Long: `Create a subscription and monitored items, then drive the client's
event loop directly (this core has no background goroutine of its own)
until interrupted.

Examples:
  opcuacli subscribe -e opc.tcp://localhost:4840 -n "ns=2;i=1"
  opcuacli subscribe -e opc.tcp://localhost:4840 -n "ns=2;s=Temperature" -i 1000`,
	RunE: runSubscribe,
}

var (
	subscribeNodeIDs []string
	publishInterval  float64
)

func init() {
	subscribeCmd.Flags().StringArrayVarP(&subscribeNodeIDs, "node", "n", nil, "Node ID(s) to subscribe to (can specify multiple)")
	subscribeCmd.Flags().Float64VarP(&publishInterval, "interval", "i", 1000, "Publishing interval in milliseconds")
	subscribeCmd.MarkFlagRequired("node")
}

func runSubscribe(cmd *cobra.Command, args []string) error {
	if len(subscribeNodeIDs) == 0 {
		return fmt.Errorf("at least one --node is required")
	}

	c := client.New(
		client.WithSyncTimeout(syncTimeout()),
		client.WithLogger(newLogger()),
		client.WithOutstandingPublishRequests(2),
	)
	if err := c.Connect(endpoint); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer c.Disconnect()

	subResp, err := c.CreateSubscription(&ua.CreateSubscriptionRequest{
		RequestedPublishingInterval: publishInterval,
		RequestedMaxKeepAliveCount:  10,
		RequestedLifetimeCount:      60,
		PublishingEnabled:           true,
	})
	if err != nil {
		return fmt.Errorf("CreateSubscription: %w", err)
	}
	fmt.Printf("Subscription created (ID: %d, Interval: %.0fms)\n", subResp.SubscriptionID, subResp.RevisedPublishingInterval)

	items := make([]ua.MonitoredItemCreateRequest, len(subscribeNodeIDs))
	for i, s := range subscribeNodeIDs {
		nodeID, err := parseNodeID(s)
		if err != nil {
			return fmt.Errorf("invalid node id %q: %w", s, err)
		}
		clientHandle := uint32(i + 1)
		items[i] = ua.MonitoredItemCreateRequest{
			ItemToMonitor:  ua.ReadValueID{NodeID: nodeID, AttributeID: ua.AttributeValue},
			MonitoringMode: ua.MonitoringModeReporting,
			RequestedParameters: ua.MonitoringParameters{
				ClientHandle:     clientHandle,
				SamplingInterval: publishInterval / 2,
				QueueSize:        1,
			},
		}
	}
	_, err = c.CreateMonitoredItems(&ua.CreateMonitoredItemsRequest{
		SubscriptionID:     subResp.SubscriptionID,
		TimestampsToReturn: ua.TimestampsToReturnBoth,
		ItemsToCreate:      items,
	})
	if err != nil {
		return fmt.Errorf("CreateMonitoredItems: %w", err)
	}
	fmt.Printf("Monitoring %d node(s), Ctrl+C to stop.\n\n", len(items))

	c.SetNotificationHandler(func(subscriptionID uint32, notif ua.NotificationMessage) {
		ts := time.Now().Format("15:04:05.000")
		fmt.Printf("[%s] subscription %d, sequence %d: %d notification(s)\n",
			ts, subscriptionID, notif.SequenceNumber, len(notif.NotificationData))
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	nextTimeout := 100
	for {
		select {
		case <-sigCh:
			fmt.Println("\nreceived interrupt, stopping...")
			return nil
		default:
		}
		next, err := c.Run(nextTimeout)
		if err != nil {
			return fmt.Errorf("event loop: %w", err)
		}
		if next < 0 || next > 1000 {
			next = 1000
		}
		nextTimeout = next
	}
}
