package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue (or reuse) an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		core, err := buildApp()
		if err != nil {
			return err
		}

		_, b, err := core.Resolver.Resolve()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		token, err := b.Token(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("mode:       %s\n", core.Resolver.Mode())
		fmt.Printf("token:      %s\n", token.Value)
		fmt.Printf("expires_at: %s\n", token.ExpiresAt.Format(time.RFC3339))
		return nil
	},
}
