package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/famledger/famledger/internal/ledger"
)

func newNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Discard the working budget and start a blank one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				return eng.NewBudget(ctx)
			})(cmd, args)
		},
	}
}

func newSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>",
		Short: "Save the working budget as a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				return eng.SaveBudget(args[0])
			})(cmd, args)
		},
	}
}

func newLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Replace the working budget with a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				if err := eng.LoadBudget(ctx, args[0]); err != nil {
					return err
				}
				last, err := eng.LastTransactionDate(ctx)
				if err != nil {
					return err
				}
				if last.IsZero() {
					fmt.Fprintln(cmd.OutOrStdout(), "loaded empty budget")
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "loaded budget, last transaction %s\n", last.Format("2006-01-02"))
				}
				return nil
			})(cmd, args)
		},
	}
}
