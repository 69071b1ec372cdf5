package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramrodpineapple01/autoexel/internal/logger"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
)

// CommitteeService defines the committee roster operations.
type CommitteeService interface {
	// List folds the Committees table by committee name. A committee's
	// meeting notes come from the last of its rows with non-empty notes.
	List(ctx context.Context) (map[string]models.Committee, error)

	// Save replaces every row of the named committee. The notes are stored
	// on the first member's row only, which is where existing workbooks
	// keep them.
	Save(ctx context.Context, name string, members []models.CommitteeMember, notes string) error
}

// committeeService is the concrete implementation of CommitteeService.
type committeeService struct {
	store repository.Store
	log   *logger.Logger
}

// NewCommitteeService creates a new instance of CommitteeService.
func NewCommitteeService(store repository.Store, log *logger.Logger) CommitteeService {
	return &committeeService{
		store: store,
		log:   log.With(map[string]interface{}{"table": models.TableCommittees}),
	}
}

func (s *committeeService) List(ctx context.Context) (map[string]models.Committee, error) {
	rows, err := s.store.Rows(ctx, models.TableCommittees)
	if err != nil {
		s.log.Error("Failed to list committees", err, nil)
		return nil, fmt.Errorf("failed to list committees: %w", err)
	}

	committees := make(map[string]models.Committee)
	for _, r := range rows {
		name := r[models.ColCommitteeName]
		c := committees[name]
		if c.Members == nil {
			c.Members = []models.CommitteeMember{}
		}

		c.Members = append(c.Members, models.CommitteeMember{
			Name:    r[models.ColMemberName],
			Role:    r[models.ColRole],
			Contact: r[models.ColContactInfo],
		})
		if notes := r[models.ColMeetingNotes]; notes != "" {
			c.MeetingNotes = notes
		}
		committees[name] = c
	}
	return committees, nil
}

func (s *committeeService) Save(ctx context.Context, name string, members []models.CommitteeMember, notes string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: committee_name is required", ErrInvalidInput)
	}
	if len(notes) > models.MaxCellLength {
		return fmt.Errorf("%w: meeting_notes exceeds %d characters", ErrInvalidInput, models.MaxCellLength)
	}

	rows := make([]models.Row, len(members))
	for i, m := range members {
		if err := validateRecord(m); err != nil {
			return err
		}
		role := m.Role
		if role == "" {
			role = models.DefaultCommitteeRole
		}

		rowNotes := ""
		if i == 0 {
			rowNotes = notes
		}
		rows[i] = models.Row{
			models.ColCommitteeName: name,
			models.ColMemberName:    m.Name,
			models.ColRole:          role,
			models.ColContactInfo:   m.Contact,
			models.ColMeetingNotes:  rowNotes,
		}
	}

	if err := s.store.ReplaceGroup(ctx, models.TableCommittees, models.ColCommitteeName, name, rows); err != nil {
		s.log.Error("Failed to save committee", err, map[string]interface{}{
			"committee": name,
		})
		return fmt.Errorf("failed to save committee: %w", err)
	}

	fields := map[string]interface{}{
		"committee": name,
		"members":   len(members),
	}
	if len(members) == 0 && notes != "" {
		// With no member row to carry them, the notes are not stored.
		s.log.Warn("Committee saved without members; meeting notes dropped", fields)
	} else {
		s.log.Info("Committee saved", fields)
	}
	return nil
}
