package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/famledger/famledger/internal/ledger"
)

func newFamilyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "family",
		Short: "Manage family members",
	}
	cmd.AddCommand(newFamilyListCommand(), newFamilyAddCommand(), newFamilyRemoveCommand())
	return cmd
}

func newFamilyListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List family members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				members, err := eng.ListFamilyMembers(ctx)
				if err != nil {
					return err
				}
				for _, m := range members {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tborn %s\n", m.ID, m.Name, m.Birthday.Format("2006-01-02"))
				}
				return nil
			})(cmd, args)
		},
	}
}

func newFamilyAddCommand() *cobra.Command {
	var birthday, income string
	var currency, retirementAge int

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a family member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			born, err := time.Parse("2006-01-02", birthday)
			if err != nil {
				return fmt.Errorf("birthday: %w", err)
			}
			taxable, err := decimal.NewFromString(income)
			if err != nil {
				return fmt.Errorf("income: %w", err)
			}
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				id, err := eng.AddFamilyMember(ctx, args[0], born, taxable, currency, retirementAge)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "family member %d created\n", id)
				return nil
			})(cmd, args)
		},
	}

	cmd.Flags().StringVar(&birthday, "birthday", "", "date of birth, YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("birthday")
	cmd.Flags().StringVar(&income, "income", "0", "taxable income")
	cmd.Flags().IntVar(&currency, "currency", 1, "income currency id")
	cmd.Flags().IntVar(&retirementAge, "retirement-age", 67, "retirement age")

	return cmd
}

func newFamilyRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove family members and fix up their accounts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				return eng.RemoveFamilyMembers(ctx, ids)
			})(cmd, args)
		},
	}
}
