package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/famledger/famledger/internal/database/repository"
	"github.com/famledger/famledger/internal/ledger"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newAccountListCommand(), newAccountAddCommand(), newAccountRemoveCommand())
	return cmd
}

func newAccountListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				accounts, err := eng.ListAccounts(ctx)
				if err != nil {
					return err
				}
				for _, a := range accounts {
					status := "open"
					if !a.Open {
						status = "closed"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\towners=%s\t%s\n", a.ID, a.Name, repository.EncodeOwners(a.Owners), status)
				}
				return nil
			})(cmd, args)
		},
	}
}

func newAccountAddCommand() *cobra.Command {
	var owners []int
	var currency, accountType int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				id, err := eng.AddAccount(ctx, args[0], owners, currency, accountType)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "account %d created\n", id)
				return nil
			})(cmd, args)
		},
	}

	cmd.Flags().IntSliceVar(&owners, "owner", nil, "family member id owning the account (repeatable, required)")
	_ = cmd.MarkFlagRequired("owner")
	cmd.Flags().IntVar(&currency, "currency", 1, "currency id")
	cmd.Flags().IntVar(&accountType, "type", 1, "account type id")

	return cmd
}

func newAccountRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove accounts and their transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				return eng.RemoveAccounts(ctx, ids)
			})(cmd, args)
		},
	}
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("id %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
