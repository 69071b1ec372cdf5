package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBoardSaveRoster_ReplacesOnlyThatYear(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewBoardService(store, testLogger())
	ctx := context.Background()

	require.NoError(t, service.SaveRoster(ctx, "2023", []models.BoardPosition{
		{Position: "President", Name: "Old Pres"},
		{Position: "Treasurer", Name: "Old Treas"},
	}))
	require.NoError(t, service.SaveRoster(ctx, "2024", []models.BoardPosition{
		{Position: "President", Name: "A"},
		{Position: "Secretary", Name: "B"},
	}))

	require.NoError(t, service.SaveRoster(ctx, "2024", []models.BoardPosition{
		{Year: "1999", Position: "President", Name: "C", AdditionalDuties: "Newsletter"},
	}))

	all, err := service.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	current, err := service.List(ctx, "2024")
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "2024", current[0].Year, "the roster year wins over a position's own")
	assert.Equal(t, "C", current[0].Name)
	assert.Equal(t, "Newsletter", current[0].AdditionalDuties)

	previous, err := service.List(ctx, "2023")
	require.NoError(t, err)
	assert.Len(t, previous, 2)

	none, err := service.List(ctx, "2030")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBoardSaveRoster_EmptyClearsYear(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewBoardService(store, testLogger())
	ctx := context.Background()

	require.NoError(t, service.SaveRoster(ctx, "2024", []models.BoardPosition{{Position: "President"}}))
	require.NoError(t, service.SaveRoster(ctx, "2024", nil))

	positions, err := service.List(ctx, "2024")
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestBoardSaveRoster_Validation(t *testing.T) {
	store, backend := newTestStore(t)
	service := NewBoardService(store, testLogger())
	saves := backend.saveCount()

	err := service.SaveRoster(context.Background(), "  ", []models.BoardPosition{{Position: "President"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = service.SaveRoster(context.Background(), "2024", []models.BoardPosition{
		{Position: "President", Name: strings.Repeat("n", models.MaxCellLength+1)},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Name")
	assert.Equal(t, saves, backend.saveCount())
}

func TestBoardYears(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewBoardService(store, testLogger())
	ctx := context.Background()

	years, err := service.Years(ctx)
	require.NoError(t, err)
	assert.NotNil(t, years)
	assert.Empty(t, years)

	for _, y := range []string{"2023", "999", "2024"} {
		require.NoError(t, service.SaveRoster(ctx, y, []models.BoardPosition{{Position: "President"}, {Position: "Secretary"}}))
	}

	years, err = service.Years(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024", "2023", "999"}, years)
}

func TestBoardYears_NumericBeforeText(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewBoardService(store, testLogger())
	ctx := context.Background()

	for _, y := range []string{"15x", "20", "100", "Interim", "007", "7"} {
		require.NoError(t, service.SaveRoster(ctx, y, []models.BoardPosition{{Position: "President"}}))
	}

	// Every call returns the same order regardless of insertion order.
	for i := 0; i < 3; i++ {
		years, err := service.Years(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"100", "20", "7", "007", "Interim", "15x"}, years)
	}
}

func TestBoardSaveRoster_StoreError(t *testing.T) {
	mockStore := new(MockStore)
	service := NewBoardService(mockStore, testLogger())
	ctx := context.Background()

	mockStore.On("ReplaceGroup", ctx, models.TableBoard, models.ColYear, "2024", mock.Anything).
		Return(&repository.StorageError{Op: "save", Err: errDiskFull})

	err := service.SaveRoster(ctx, "2024", []models.BoardPosition{{Position: "President"}})
	assert.ErrorIs(t, err, errDiskFull)
	mockStore.AssertExpectations(t)
}

func TestCommitteeSave_FoldsMembersAndNotes(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewCommitteeService(store, testLogger())
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, "Social", []models.CommitteeMember{
		{Name: "Ann", Role: "Chair", Contact: "ann@x.org"},
		{Name: "Bob"},
	}, "Meets monthly"))
	require.NoError(t, service.Save(ctx, "Grounds", []models.CommitteeMember{{Name: "Cy"}}, ""))

	committees, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, committees, 2)

	social := committees["Social"]
	require.Len(t, social.Members, 2)
	assert.Equal(t, "Chair", social.Members[0].Role)
	assert.Equal(t, models.DefaultCommitteeRole, social.Members[1].Role)
	assert.Equal(t, "Meets monthly", social.MeetingNotes)

	// Notes live on the first member's row only.
	rows, err := store.Rows(ctx, models.TableCommittees)
	require.NoError(t, err)
	var withNotes int
	for _, r := range rows {
		if r[models.ColMeetingNotes] != "" {
			withNotes++
			assert.Equal(t, "Ann", r[models.ColMemberName])
		}
	}
	assert.Equal(t, 1, withNotes)

	assert.Equal(t, "", committees["Grounds"].MeetingNotes)
}

func TestCommitteeSave_ReplacesOnlyThatCommittee(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewCommitteeService(store, testLogger())
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, "Social", []models.CommitteeMember{{Name: "Ann"}, {Name: "Bob"}}, "old"))
	require.NoError(t, service.Save(ctx, "Grounds", []models.CommitteeMember{{Name: "Cy"}}, ""))
	require.NoError(t, service.Save(ctx, "Social", []models.CommitteeMember{{Name: "Dee"}}, "new"))

	committees, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, committees["Social"].Members, 1)
	assert.Equal(t, "Dee", committees["Social"].Members[0].Name)
	assert.Equal(t, "new", committees["Social"].MeetingNotes)
	require.Len(t, committees["Grounds"].Members, 1)

	// Saving with no members removes the committee.
	require.NoError(t, service.Save(ctx, "Social", nil, "ignored"))
	committees, err = service.List(ctx)
	require.NoError(t, err)
	_, ok := committees["Social"]
	assert.False(t, ok)
}

func TestCommitteeList_LastNotesWin(t *testing.T) {
	ctx := context.Background()
	mockStore := new(MockStore)
	service := NewCommitteeService(mockStore, testLogger())

	mockStore.On("Rows", ctx, models.TableCommittees).Return([]models.Row{
		{models.ColCommitteeName: "Finance", models.ColMemberName: "A", models.ColRole: "", models.ColMeetingNotes: "first"},
		{models.ColCommitteeName: "Finance", models.ColMemberName: "B", models.ColRole: "Chair", models.ColMeetingNotes: "second"},
		{models.ColCommitteeName: "Finance", models.ColMemberName: "C", models.ColRole: "Member", models.ColMeetingNotes: ""},
	}, nil)

	committees, err := service.List(ctx)
	require.NoError(t, err)
	finance := committees["Finance"]
	assert.Equal(t, "second", finance.MeetingNotes)
	require.Len(t, finance.Members, 3)
	assert.Equal(t, "", finance.Members[0].Role, "stored roles are returned as-is")
	mockStore.AssertExpectations(t)
}

func TestCommitteeSave_Validation(t *testing.T) {
	store, backend := newTestStore(t)
	service := NewCommitteeService(store, testLogger())
	ctx := context.Background()
	saves := backend.saveCount()

	err := service.Save(ctx, " ", []models.CommitteeMember{{Name: "Ann"}}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = service.Save(ctx, "Social", []models.CommitteeMember{{Name: "Ann"}}, strings.Repeat("n", models.MaxCellLength+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = service.Save(ctx, "Social", []models.CommitteeMember{{Contact: strings.Repeat("c", models.MaxCellLength+1)}}, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "contact")

	assert.Equal(t, saves, backend.saveCount())
}

func TestCommitteeSave_StorageFailure(t *testing.T) {
	store, backend := newTestStore(t)
	service := NewCommitteeService(store, testLogger())
	ctx := context.Background()

	require.NoError(t, service.Save(ctx, "Social", []models.CommitteeMember{{Name: "Ann"}}, ""))
	backend.failSaves(errDiskFull)

	err := service.Save(ctx, "Social", []models.CommitteeMember{{Name: "Bob"}}, "")
	var storageErr *repository.StorageError
	require.ErrorAs(t, err, &storageErr)

	committees, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", committees["Social"].Members[0].Name)
}
