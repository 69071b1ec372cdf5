package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramrodpineapple01/autoexel/internal/logger"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
)

// LotMapService defines the lot map overlay operations.
type LotMapService interface {
	// ListRegions returns every region with its coordinates decoded.
	ListRegions(ctx context.Context) ([]models.LotMapRegion, error)

	// SaveRegion updates the region with the same lot number or adds it.
	// An empty region type is saved as polygon.
	SaveRegion(ctx context.Context, region models.LotMapRegion) error

	// GetRegion returns the region for lotNumber (exact match).
	// Returns ErrRegionNotFound if there is none.
	GetRegion(ctx context.Context, lotNumber string) (models.LotMapRegion, error)
}

// lotMapService is the concrete implementation of LotMapService.
type lotMapService struct {
	store repository.Store
	log   *logger.Logger
}

// NewLotMapService creates a new instance of LotMapService.
func NewLotMapService(store repository.Store, log *logger.Logger) LotMapService {
	return &lotMapService{
		store: store,
		log:   log.With(map[string]interface{}{"table": models.TableLotMapRegions}),
	}
}

func (s *lotMapService) ListRegions(ctx context.Context) ([]models.LotMapRegion, error) {
	rows, err := s.store.Rows(ctx, models.TableLotMapRegions)
	if err != nil {
		s.log.Error("Failed to list lot map regions", err, nil)
		return nil, fmt.Errorf("failed to list lot map regions: %w", err)
	}

	regions := make([]models.LotMapRegion, len(rows))
	for i, r := range rows {
		regions[i] = models.LotMapRegionFromRow(r)
	}
	return regions, nil
}

func (s *lotMapService) SaveRegion(ctx context.Context, region models.LotMapRegion) error {
	if strings.TrimSpace(region.LotNumber) == "" {
		return fmt.Errorf("%w: lot_number is required", ErrInvalidInput)
	}
	if region.RegionType == "" {
		region.RegionType = models.DefaultRegionType
	}

	row, err := region.Row()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(row[models.ColCoordinates]) > models.MaxCellLength {
		return fmt.Errorf("%w: coordinates exceed %d characters when encoded", ErrInvalidInput, models.MaxCellLength)
	}

	lot := region.LotNumber
	inserted, err := s.store.Upsert(ctx, models.TableLotMapRegions, func(r models.Row) bool {
		return r[models.ColLotNumber] == lot
	}, row)
	if err != nil {
		s.log.Error("Failed to save lot map region", err, map[string]interface{}{
			"lot_number": lot,
		})
		return fmt.Errorf("failed to save lot map region: %w", err)
	}

	s.log.Info("Lot map region saved", map[string]interface{}{
		"lot_number": lot,
		"points":     len(region.Coordinates),
		"inserted":   inserted,
	})
	return nil
}

func (s *lotMapService) GetRegion(ctx context.Context, lotNumber string) (models.LotMapRegion, error) {
	rows, err := s.store.Rows(ctx, models.TableLotMapRegions)
	if err != nil {
		s.log.Error("Failed to read lot map regions", err, map[string]interface{}{
			"lot_number": lotNumber,
		})
		return models.LotMapRegion{}, fmt.Errorf("failed to read lot map regions: %w", err)
	}

	for _, r := range rows {
		if r[models.ColLotNumber] == lotNumber {
			return models.LotMapRegionFromRow(r), nil
		}
	}

	s.log.Debug("Lot map region not found", map[string]interface{}{
		"lot_number": lotNumber,
	})
	return models.LotMapRegion{}, fmt.Errorf("%w: %s", ErrRegionNotFound, lotNumber)
}
