// Package cli implements communityctl, the administrative command line
// for the community tables. It opens the same store as the HTTP server.
package cli

import (
	"context"
	"fmt"

	"github.com/ramrodpineapple01/autoexel/internal/config"
	"github.com/ramrodpineapple01/autoexel/internal/database"
	"github.com/ramrodpineapple01/autoexel/internal/logger"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
	"github.com/ramrodpineapple01/autoexel/internal/services"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	dataFile string

	backend    database.Backend
	directory  services.DirectoryService
	board      services.BoardService
	committees services.CommitteeService
	lotOwners  services.LotOwnerService
	lotMap     services.LotMapService
)

var rootCmd = &cobra.Command{
	Use:     "communityctl",
	Short:   "Manage the community association tables",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Templates are static and work without a store.
		if cmd.Name() == "template" {
			return nil
		}

		if err := closeBackend(); err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if dataFile != "" {
			cfg.Store.Backend = config.BackendXLSX
			cfg.Store.DataFile = dataFile
		}

		log := logger.NewWithOptions(cfg.Server.Env, logger.Options{
			Level:  cfg.Server.LogLevel,
			Output: cmd.ErrOrStderr(),
		})

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		b, err := database.Open(ctx, cfg)
		if err != nil {
			return fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
		}
		store, err := repository.NewStore(ctx, b)
		if err != nil {
			b.Close()
			return fmt.Errorf("loading tables: %w", err)
		}

		backend = b
		directory = services.NewDirectoryService(store, log)
		board = services.NewBoardService(store, log)
		committees = services.NewCommitteeService(store, log)
		lotOwners = services.NewLotOwnerService(store, log)
		lotMap = services.NewLotMapService(store, log)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeBackend()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFile, "data-file", "", "workbook path (overrides STORE_BACKEND and DATA_FILE)")
}

func closeBackend() error {
	if backend == nil {
		return nil
	}
	err := backend.Close()
	backend = nil
	return err
}

// Execute runs the root command.
func Execute() error {
	defer closeBackend()
	return rootCmd.Execute()
}
