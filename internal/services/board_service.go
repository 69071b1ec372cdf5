package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ramrodpineapple01/autoexel/internal/logger"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
)

// BoardService defines the board-of-directors roster operations.
type BoardService interface {
	// List returns board positions, restricted to year when it is not empty.
	List(ctx context.Context, year string) ([]models.BoardPosition, error)

	// Years returns the distinct years with board data, newest first.
	Years(ctx context.Context) ([]string, error)

	// SaveRoster replaces every position of year with positions.
	// Rows of other years are untouched.
	SaveRoster(ctx context.Context, year string, positions []models.BoardPosition) error
}

// boardService is the concrete implementation of BoardService.
type boardService struct {
	store repository.Store
	log   *logger.Logger
}

// NewBoardService creates a new instance of BoardService.
func NewBoardService(store repository.Store, log *logger.Logger) BoardService {
	return &boardService{
		store: store,
		log:   log.With(map[string]interface{}{"table": models.TableBoard}),
	}
}

func (s *boardService) List(ctx context.Context, year string) ([]models.BoardPosition, error) {
	rows, err := s.store.Rows(ctx, models.TableBoard)
	if err != nil {
		s.log.Error("Failed to list board", err, nil)
		return nil, fmt.Errorf("failed to list board: %w", err)
	}

	positions := make([]models.BoardPosition, 0, len(rows))
	for _, r := range rows {
		if year != "" && r[models.ColYear] != year {
			continue
		}
		positions = append(positions, models.BoardPositionFromRow(r))
	}
	return positions, nil
}

func (s *boardService) Years(ctx context.Context) ([]string, error) {
	rows, err := s.store.Rows(ctx, models.TableBoard)
	if err != nil {
		s.log.Error("Failed to list board years", err, nil)
		return nil, fmt.Errorf("failed to list board years: %w", err)
	}

	// Numeric years sort newest first, then any text years, descending.
	seen := make(map[string]bool)
	var numeric, text []string
	values := make(map[string]int)
	for _, r := range rows {
		y := r[models.ColYear]
		if y == "" || seen[y] {
			continue
		}
		seen[y] = true
		if n, err := strconv.Atoi(y); err == nil {
			values[y] = n
			numeric = append(numeric, y)
		} else {
			text = append(text, y)
		}
	}

	sort.SliceStable(numeric, func(i, j int) bool {
		a, b := values[numeric[i]], values[numeric[j]]
		if a != b {
			return a > b
		}
		return numeric[i] > numeric[j]
	})
	sort.Sort(sort.Reverse(sort.StringSlice(text)))

	years := make([]string, 0, len(numeric)+len(text))
	years = append(years, numeric...)
	return append(years, text...), nil
}

func (s *boardService) SaveRoster(ctx context.Context, year string, positions []models.BoardPosition) error {
	year = strings.TrimSpace(year)
	if year == "" {
		return fmt.Errorf("%w: year is required", ErrInvalidInput)
	}

	rows := make([]models.Row, len(positions))
	for i, p := range positions {
		if err := validateRecord(p); err != nil {
			return err
		}
		p.Year = year
		rows[i] = p.Row()
	}

	if err := s.store.ReplaceGroup(ctx, models.TableBoard, models.ColYear, year, rows); err != nil {
		s.log.Error("Failed to save board roster", err, map[string]interface{}{
			"year": year,
		})
		return fmt.Errorf("failed to save board roster: %w", err)
	}

	s.log.Info("Board roster saved", map[string]interface{}{
		"year":      year,
		"positions": len(positions),
	})
	return nil
}
