package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/famledger/famledger/internal/ledger"
)

func newImportCommand() *cobra.Command {
	var account int
	var format string

	cmd := &cobra.Command{
		Use:   "import <statement.csv>",
		Short: "Import a bank statement into an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var fmtID ledger.ImportFormat
			switch format {
			case "barclays":
				fmtID = ledger.FormatBarclays
			default:
				return fmt.Errorf("unsupported statement format %q", format)
			}
			return withEngine(func(ctx context.Context, eng *ledger.Engine) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				res, err := eng.ImportStatement(ctx, account, fmtID, filepath.Base(args[0]), f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d transactions, skipped %d duplicates\n", res.Inserted, res.Skipped)
				return nil
			})(cmd, args)
		},
	}

	cmd.Flags().IntVar(&account, "account", 0, "account id to book against (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&format, "format", "barclays", "statement format")

	return cmd
}
