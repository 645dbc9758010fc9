package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	quotesFrom string
	quotesTo   string
)

var quotesCmd = &cobra.Command{
	Use:   "quotes <symbol>",
	Short: "Fetch daily quotes for a symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := buildApp()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		rows, err := core.Quotes.Daily(ctx, args[0], quotesFrom, quotesTo)
		if err != nil {
			return err
		}

		fmt.Printf("%-10s %10s %10s %10s %10s %12s\n", "DATE", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
		for _, q := range rows {
			fmt.Printf("%-10s %10d %10d %10d %10d %12d\n", q.Date, q.Open, q.High, q.Low, q.Close, q.Volume)
		}
		return nil
	},
}

func init() {
	quotesCmd.Flags().StringVar(&quotesFrom, "from", "", "start date (YYYYMMDD)")
	quotesCmd.Flags().StringVar(&quotesTo, "to", "", "end date (YYYYMMDD)")
}
