package cmd

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/c9s/chartsync/pkg/restapi"
	"github.com/c9s/chartsync/pkg/server"
	"github.com/c9s/chartsync/pkg/style"
)

func init() {
	RootCmd.AddCommand(StatusCmd)
}

// StatusCmd prints the chart instances of a running service.
var StatusCmd = &cobra.Command{
	Use:          "status",
	Short:        "list the chart instances of a running chartsync service",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := restapi.New(viper.GetString("api"))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		req, err := client.NewRequest(ctx, "GET", "/api/charts", nil, nil)
		if err != nil {
			return err
		}

		response, err := client.SendRequest(req)
		if err != nil {
			return err
		}

		var resp struct {
			Charts []server.ChartSummary `json:"charts"`
		}
		if err := json.Unmarshal(response.Body, &resp); err != nil {
			return err
		}

		t := style.NewTableWriter(os.Stdout, "Charts",
			"ID", "Strategy", "KLine", "Keys", "Initialized", "Candles", "Markers", "Price Lines", "Subscriptions")
		for _, c := range resp.Charts {
			t.AppendRow([]interface{}{
				c.ID, c.StrategyID, c.KLine, len(c.Keys), c.IsDataInitialized,
				c.Candles, c.Markers, c.PriceLines, c.Subscriptions,
			})
		}
		t.Render()
		return nil
	},
}
