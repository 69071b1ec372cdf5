package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listTables = []string{"directory", "board", "committees", "lot-owners", "regions"}

var listCmd = &cobra.Command{
	Use:       "list <table>",
	Short:     "List the rows of a table",
	Long:      "List the rows of a table: " + strings.Join(listTables, ", ") + ".",
	Args:      cobra.ExactArgs(1),
	ValidArgs: listTables,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		var rendered string
		switch args[0] {
		case "directory":
			entries, err := directory.List(ctx)
			if err != nil {
				return err
			}
			rendered = renderDirectoryTable(entries)
		case "board":
			year, _ := cmd.Flags().GetString("year")
			positions, err := board.List(ctx, year)
			if err != nil {
				return err
			}
			rendered = renderBoardTable(positions)
		case "committees":
			byName, err := committees.List(ctx)
			if err != nil {
				return err
			}
			rendered = renderCommitteeTable(byName)
		case "lot-owners":
			owners, err := lotOwners.List(ctx)
			if err != nil {
				return err
			}
			rendered = renderLotOwnerTable(owners)
		case "regions":
			regions, err := lotMap.ListRegions(ctx)
			if err != nil {
				return err
			}
			rendered = renderRegionTable(regions)
		default:
			return fmt.Errorf("unknown table %q (expected one of %s)", args[0], strings.Join(listTables, ", "))
		}

		fmt.Fprintln(out, rendered)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the directory, ignoring case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := directory.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderDirectoryTable(entries))
		return nil
	},
}

func init() {
	listCmd.Flags().String("year", "", "only list board positions of this year")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
}
