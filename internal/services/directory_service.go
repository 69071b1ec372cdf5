package services

import (
	"context"
	"fmt"

	"github.com/ramrodpineapple01/autoexel/internal/csvimport"
	"github.com/ramrodpineapple01/autoexel/internal/logger"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
)

// DirectoryColumns are the headers accepted by a directory import.
var DirectoryColumns = csvimport.Columns{
	Required: []string{models.ColOwner, models.ColPhone, models.ColAddress, models.ColCity, models.ColZip, models.ColEmail},
	Optional: []string{models.ColState, models.ColLotNumber},
}

// DirectoryTemplate is the CSV skeleton offered for directory imports.
var DirectoryTemplate = csvimport.Template{
	Filename: "directory_template.csv",
	Header: []string{
		models.ColOwner, models.ColPhone, models.ColAddress, models.ColCity,
		models.ColState, models.ColZip, models.ColEmail, models.ColLotNumber,
	},
	Example: []string{"John Doe", "555-1234", "123 Main St", "City", "ST", "12345", "john@example.com", "1"},
}

// DirectoryService defines the member directory operations.
type DirectoryService interface {
	// List returns every directory entry in row order.
	List(ctx context.Context) ([]models.DirectoryEntry, error)

	// Search returns entries with any field containing query, ignoring case.
	// An empty query returns an empty list.
	Search(ctx context.Context, query string) ([]models.DirectoryEntry, error)

	// Create adds an entry and returns it with its assigned ID.
	Create(ctx context.Context, fields models.DirectoryFields) (models.DirectoryEntry, error)

	// Update applies a partial update to the entry whose ID is id.
	// Returns ErrEntryNotFound if no entry has that ID.
	Update(ctx context.Context, id string, patch models.DirectoryPatch) error

	// Delete removes the entry whose ID is id.
	// Returns ErrEntryNotFound if no entry has that ID.
	Delete(ctx context.Context, id string) error

	// Import appends every row of a directory CSV.
	Import(ctx context.Context, data []byte) (*ImportResult, error)
}

// directoryService is the concrete implementation of DirectoryService.
type directoryService struct {
	store repository.Store
	log   *logger.Logger
}

// NewDirectoryService creates a new instance of DirectoryService.
func NewDirectoryService(store repository.Store, log *logger.Logger) DirectoryService {
	return &directoryService{
		store: store,
		log:   log.With(map[string]interface{}{"table": models.TableDirectory}),
	}
}

func (s *directoryService) List(ctx context.Context) ([]models.DirectoryEntry, error) {
	rows, err := s.store.Rows(ctx, models.TableDirectory)
	if err != nil {
		s.log.Error("Failed to list directory", err, nil)
		return nil, fmt.Errorf("failed to list directory: %w", err)
	}
	return directoryEntries(rows), nil
}

func (s *directoryService) Search(ctx context.Context, query string) ([]models.DirectoryEntry, error) {
	rows, err := s.store.Search(ctx, models.TableDirectory, query)
	if err != nil {
		s.log.Error("Failed to search directory", err, map[string]interface{}{
			"query": query,
		})
		return nil, fmt.Errorf("failed to search directory: %w", err)
	}

	s.log.Debug("Directory search", map[string]interface{}{
		"query":   query,
		"matches": len(rows),
	})
	return directoryEntries(rows), nil
}

func (s *directoryService) Create(ctx context.Context, fields models.DirectoryFields) (models.DirectoryEntry, error) {
	if err := validateRecord(fields); err != nil {
		return models.DirectoryEntry{}, err
	}

	row, err := s.store.AddRow(ctx, models.TableDirectory, fields.Row())
	if err != nil {
		s.log.Error("Failed to add directory entry", err, map[string]interface{}{
			"owner": fields.Owner,
		})
		return models.DirectoryEntry{}, fmt.Errorf("failed to add directory entry: %w", err)
	}

	entry := models.DirectoryEntryFromRow(row)
	s.log.Info("Directory entry added", map[string]interface{}{
		"id":    entry.ID,
		"owner": entry.Owner,
	})
	return entry, nil
}

func (s *directoryService) Update(ctx context.Context, id string, patch models.DirectoryPatch) error {
	if err := validateRecord(patch); err != nil {
		return err
	}

	found, err := s.store.UpdateRow(ctx, models.TableDirectory, id, patch.Row())
	if err != nil {
		s.log.Error("Failed to update directory entry", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to update directory entry: %w", err)
	}
	if !found {
		s.log.Debug("Directory entry not found for update", map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}

	s.log.Info("Directory entry updated", map[string]interface{}{
		"id":     id,
		"fields": len(patch.Row()),
	})
	return nil
}

func (s *directoryService) Delete(ctx context.Context, id string) error {
	found, err := s.store.DeleteRow(ctx, models.TableDirectory, id)
	if err != nil {
		s.log.Error("Failed to delete directory entry", err, map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("failed to delete directory entry: %w", err)
	}
	if !found {
		s.log.Debug("Directory entry not found for delete", map[string]interface{}{
			"id": id,
		})
		return fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}

	s.log.Info("Directory entry deleted", map[string]interface{}{
		"id": id,
	})
	return nil
}

func (s *directoryService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	return runImport(ctx, s.store, s.log, data, importSpec{
		table:   models.TableDirectory,
		columns: DirectoryColumns,
		apply: func(tx *repository.Tx, rec csvimport.Record) error {
			fields := models.DirectoryFields{
				Owner:     rec[models.ColOwner],
				Phone:     rec[models.ColPhone],
				Address:   rec[models.ColAddress],
				City:      rec[models.ColCity],
				State:     rec[models.ColState],
				Zip:       rec[models.ColZip],
				Email:     rec[models.ColEmail],
				LotNumber: rec[models.ColLotNumber],
			}
			if err := validateRecord(fields); err != nil {
				return err
			}
			_, err := tx.AddRow(models.TableDirectory, fields.Row())
			return err
		},
	})
}

func directoryEntries(rows []models.Row) []models.DirectoryEntry {
	entries := make([]models.DirectoryEntry, len(rows))
	for i, r := range rows {
		entries[i] = models.DirectoryEntryFromRow(r)
	}
	return entries
}
