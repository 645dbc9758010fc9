package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wonny/kisfolio/internal/domain/portfolio"
)

var planCash int64

var planCmd = &cobra.Command{
	Use:   "plan <symbol> [symbol...]",
	Short: "Compute weights and an order preview",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := buildApp()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		cash := decimal.NewFromInt(planCash)

		prices, err := core.Quotes.LatestAll(ctx, args)
		if err != nil {
			return err
		}

		items := make([]portfolio.Item, 0, len(args))
		for _, symbol := range args {
			items = append(items, portfolio.Item{Symbol: symbol})
		}
		result, err := core.Weights.Compute(portfolio.WeightRequest{Items: items, TotalCash: cash}, prices)
		if err != nil {
			return err
		}

		fmt.Println("weights:")
		for _, item := range result.Items {
			fmt.Printf("  %-8s %.4f  initial=%s  dca=%s\n",
				item.Symbol, item.Weight, item.InitialBuyCash, item.DCACash)
		}

		preview, err := core.Planner.Preview(result.Weights(), core.Book.Quantities(), cash, prices)
		if err != nil {
			return err
		}

		fmt.Println("preview:")
		for _, line := range preview.Lines {
			fmt.Printf("  %-4s %-8s qty=%d price=%s amount=%s\n",
				line.Side, line.Symbol, line.Qty, line.Price, line.Amount)
		}
		fmt.Printf("total: %s\n", preview.TotalAmount)
		return nil
	},
}

func init() {
	planCmd.Flags().Int64Var(&planCash, "cash", 1_000_000, "total cash in KRW")
}
