package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ramrodpineapple01/autoexel/internal/csvimport"
	"github.com/ramrodpineapple01/autoexel/internal/services"
	"github.com/spf13/cobra"
)

// importTarget binds an importable table to its service call and template.
type importTarget struct {
	noun     string
	run      func(ctx context.Context, data []byte) (*services.ImportResult, error)
	template csvimport.Template
}

func importTargetFor(name string) (importTarget, error) {
	switch name {
	case "directory":
		return importTarget{
			noun:     "entries",
			run:      func(ctx context.Context, data []byte) (*services.ImportResult, error) { return directory.Import(ctx, data) },
			template: services.DirectoryTemplate,
		}, nil
	case "lot-owners":
		return importTarget{
			noun:     "lot owners",
			run:      func(ctx context.Context, data []byte) (*services.ImportResult, error) { return lotOwners.Import(ctx, data) },
			template: services.LotOwnerTemplate,
		}, nil
	}
	return importTarget{}, fmt.Errorf("unknown import table %q (expected directory or lot-owners)", name)
}

var importCmd = &cobra.Command{
	Use:   "import <directory|lot-owners> <file>",
	Short: "Bulk import a CSV file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := importTargetFor(args[0])
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[1], err)
		}

		result, err := target.run(cmd.Context(), data)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d %s (%s)\n", result.Imported, target.noun, result.Encoding)
		if result.Failed() {
			for _, msg := range result.Messages() {
				fmt.Fprintln(out, msg)
			}
			return fmt.Errorf("%d rows could not be imported", result.ErrorCount)
		}
		return nil
	},
}

var templateCmd = &cobra.Command{
	Use:   "template <directory|lot-owners>",
	Short: "Write a CSV import template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := importTargetFor(args[0])
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			_, err := target.template.WriteTo(cmd.OutOrStdout())
			return err
		}

		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		if _, err := target.template.WriteTo(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync-lot-owners",
	Short: "Rebuild Lot_Owners from the directory's owner names",
	Long: "Rebuild Lot_Owners from the directory's owner names.\n" +
		"Lot numbers recorded on existing lot owners are discarded.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := lotOwners.SyncFromDirectory(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Lot owners synced from directory (%d entries, %d owners written)\n",
			result.DirectoryEntries, result.OwnersWritten)
		return nil
	},
}

func init() {
	templateCmd.Flags().StringP("output", "o", "", "write the template to a file instead of stdout")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(syncCmd)
}
