package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramrodpineapple01/autoexel/internal/csvimport"
	"github.com/ramrodpineapple01/autoexel/internal/logger"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
)

// LotOwnerColumns are the headers required by a lot-owner import.
var LotOwnerColumns = csvimport.Columns{
	Required: []string{models.ColSurname, models.ColFirstName, models.ColLotNumbers},
}

// LotOwnerTemplate is the CSV skeleton offered for lot-owner imports.
var LotOwnerTemplate = csvimport.Template{
	Filename: "lot_owners_template.csv",
	Header:   []string{models.ColSurname, models.ColFirstName, models.ColLotNumbers},
	Example:  []string{"Doe", "John", "1,2,3"},
}

// SyncResult reports a rebuild of Lot_Owners from the directory.
type SyncResult struct {
	// DirectoryEntries is the number of directory rows read.
	DirectoryEntries int
	// OwnersWritten is the number of Lot_Owners rows created.
	OwnersWritten int
}

// LotOwnerService defines the lot ownership operations.
type LotOwnerService interface {
	// List returns every lot owner in row order.
	List(ctx context.Context) ([]models.LotOwner, error)

	// Save updates the owner with the same surname and first name, or adds
	// a new one. Owners missing either name part are always added.
	// Returns true when a row was inserted.
	Save(ctx context.Context, owner models.LotOwner) (bool, error)

	// Import applies every row of a lot-owner CSV the same way as Save.
	Import(ctx context.Context, data []byte) (*ImportResult, error)

	// SyncFromDirectory rebuilds Lot_Owners from the directory's Owner
	// names. Recorded lot numbers are discarded.
	SyncFromDirectory(ctx context.Context) (SyncResult, error)
}

// lotOwnerService is the concrete implementation of LotOwnerService.
type lotOwnerService struct {
	store repository.Store
	log   *logger.Logger
}

// NewLotOwnerService creates a new instance of LotOwnerService.
func NewLotOwnerService(store repository.Store, log *logger.Logger) LotOwnerService {
	return &lotOwnerService{
		store: store,
		log:   log.With(map[string]interface{}{"table": models.TableLotOwners}),
	}
}

func (s *lotOwnerService) List(ctx context.Context) ([]models.LotOwner, error) {
	rows, err := s.store.Rows(ctx, models.TableLotOwners)
	if err != nil {
		s.log.Error("Failed to list lot owners", err, nil)
		return nil, fmt.Errorf("failed to list lot owners: %w", err)
	}

	owners := make([]models.LotOwner, len(rows))
	for i, r := range rows {
		owners[i] = models.LotOwnerFromRow(r)
	}
	return owners, nil
}

func (s *lotOwnerService) Save(ctx context.Context, owner models.LotOwner) (bool, error) {
	if err := validateRecord(owner); err != nil {
		return false, err
	}

	var inserted bool
	err := s.store.Batch(ctx, func(tx *repository.Tx) error {
		var err error
		inserted, err = saveOwner(tx, owner)
		return err
	})
	if err != nil {
		s.log.Error("Failed to save lot owner", err, map[string]interface{}{
			"surname":   owner.Surname,
			"firstname": owner.FirstName,
		})
		return false, fmt.Errorf("failed to save lot owner: %w", err)
	}

	s.log.Info("Lot owner saved", map[string]interface{}{
		"surname":   owner.Surname,
		"firstname": owner.FirstName,
		"inserted":  inserted,
	})
	return inserted, nil
}

func (s *lotOwnerService) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	return runImport(ctx, s.store, s.log, data, importSpec{
		table:   models.TableLotOwners,
		columns: LotOwnerColumns,
		apply: func(tx *repository.Tx, rec csvimport.Record) error {
			owner := models.LotOwner{
				Surname:    rec[models.ColSurname],
				FirstName:  rec[models.ColFirstName],
				LotNumbers: rec[models.ColLotNumbers],
			}
			if err := validateRecord(owner); err != nil {
				return err
			}
			_, err := saveOwner(tx, owner)
			return err
		},
	})
}

func (s *lotOwnerService) SyncFromDirectory(ctx context.Context) (SyncResult, error) {
	var result SyncResult
	err := s.store.Batch(ctx, func(tx *repository.Tx) error {
		entries, err := tx.Rows(models.TableDirectory)
		if err != nil {
			return err
		}
		result.DirectoryEntries = len(entries)

		owners := make([]models.Row, 0, len(entries))
		for _, e := range entries {
			name := strings.TrimSpace(e[models.ColOwner])
			if name == "" {
				continue
			}
			surname, first := SplitOwnerName(name)
			owners = append(owners, models.LotOwner{Surname: surname, FirstName: first}.Row())
		}
		result.OwnersWritten = len(owners)

		return tx.ReplaceAll(models.TableLotOwners, owners)
	})
	if err != nil {
		s.log.Error("Failed to sync lot owners from directory", err, nil)
		return SyncResult{}, fmt.Errorf("failed to sync lot owners: %w", err)
	}

	s.log.Info("Lot owners synced from directory", map[string]interface{}{
		"directory_entries": result.DirectoryEntries,
		"owners_written":    result.OwnersWritten,
	})
	return result, nil
}

// saveOwner upserts on the trimmed, case-sensitive (Surname, FirstName)
// pair when both are present and appends otherwise.
func saveOwner(tx *repository.Tx, owner models.LotOwner) (bool, error) {
	if !owner.HasKey() {
		_, err := tx.AddRow(models.TableLotOwners, owner.Row())
		return true, err
	}

	surname := strings.TrimSpace(owner.Surname)
	first := strings.TrimSpace(owner.FirstName)
	match := func(r models.Row) bool {
		return strings.TrimSpace(r[models.ColSurname]) == surname &&
			strings.TrimSpace(r[models.ColFirstName]) == first
	}
	return tx.Upsert(models.TableLotOwners, match, owner.Row())
}

// SplitOwnerName derives (surname, first name) from a directory Owner:
// "Smith, Jane" splits on the single comma, "Jane Smith" takes the first
// word as the first name and the rest as the surname, and a single word
// is all surname.
func SplitOwnerName(owner string) (surname, firstName string) {
	owner = strings.TrimSpace(owner)

	if parts := strings.Split(owner, ","); len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}

	if words := strings.Fields(owner); len(words) >= 2 {
		return strings.Join(words[1:], " "), words[0]
	}

	return owner, ""
}
