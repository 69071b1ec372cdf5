package services

import (
	"context"
	"strings"
	"testing"

	"github.com/ramrodpineapple01/autoexel/internal/csvimport"
	"github.com/ramrodpineapple01/autoexel/internal/models"
	"github.com/ramrodpineapple01/autoexel/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDirectoryCreate_AssignsIDs(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewDirectoryService(store, testLogger())
	ctx := context.Background()

	first, err := service.Create(ctx, models.DirectoryFields{Owner: "Jane Smith", Zip: "01234"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, "01234", first.Zip)

	second, err := service.Create(ctx, models.DirectoryFields{ID: []byte("42"), Owner: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID, "client-supplied ID is ignored")
}

func TestDirectoryCreate_RejectsOversizedCell(t *testing.T) {
	store, backend := newTestStore(t)
	service := NewDirectoryService(store, testLogger())
	saves := backend.saveCount()

	_, err := service.Create(context.Background(), models.DirectoryFields{
		Owner: strings.Repeat("x", models.MaxCellLength+1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Owner")
	assert.Equal(t, saves, backend.saveCount())
}

func TestDirectoryUpdate_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewDirectoryService(store, testLogger())
	ctx := context.Background()

	entry, err := service.Create(ctx, models.DirectoryFields{Owner: "Jane", Phone: "111", City: "Town"})
	require.NoError(t, err)

	err = service.Update(ctx, "1", models.DirectoryPatch{Phone: strPtr("222"), Email: strPtr("j@x.org")})
	require.NoError(t, err)

	list, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entry.ID, list[0].ID)
	assert.Equal(t, "222", list[0].Phone)
	assert.Equal(t, "j@x.org", list[0].Email)
	assert.Equal(t, "Jane", list[0].Owner)
	assert.Equal(t, "Town", list[0].City)
}

func TestDirectoryUpdate_NotFound(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewDirectoryService(store, testLogger())

	err := service.Update(context.Background(), "9", models.DirectoryPatch{Phone: strPtr("1")})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestDirectoryDelete(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewDirectoryService(store, testLogger())
	ctx := context.Background()

	_, err := service.Create(ctx, models.DirectoryFields{Owner: "A"})
	require.NoError(t, err)
	_, err = service.Create(ctx, models.DirectoryFields{Owner: "B"})
	require.NoError(t, err)

	assert.ErrorIs(t, service.Delete(ctx, "5"), ErrEntryNotFound)
	list, _ := service.List(ctx)
	assert.Len(t, list, 2)

	require.NoError(t, service.Delete(ctx, "2"))
	list, _ = service.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Owner)

	// The deleted ID is not reassigned.
	entry, err := service.Create(ctx, models.DirectoryFields{Owner: "C"})
	require.NoError(t, err)
	assert.Equal(t, 3, entry.ID)
}

func TestDirectorySearch(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewDirectoryService(store, testLogger())
	ctx := context.Background()
	_, _ = service.Create(ctx, models.DirectoryFields{Owner: "Jane Smith"})
	_, _ = service.Create(ctx, models.DirectoryFields{Owner: "Bob", Email: "bob@smithfamily.org"})
	_, _ = service.Create(ctx, models.DirectoryFields{Owner: "Ann"})

	results, err := service.Search(ctx, "SMITH")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = service.Search(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestDirectoryImport_HeadersAndBlankRows(t *testing.T) {
	store, backend := newTestStore(t)
	service := NewDirectoryService(store, testLogger())
	saves := backend.saveCount()

	csv := " owner ,PHONE,Address,city,Zip,EMAIL,state\n" +
		"Jane Smith,555-1111,1 Main St,Town,01234,jane@x.org,CA\n" +
		",,,,,,\n" +
		"Bob Jones,555-2222,2 Main St,Town,01235,bob@x.org,\n"

	result, err := service.Import(context.Background(), []byte(csv))
	require.NoError(t, err)
	assert.False(t, result.Failed())
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, saves+1, backend.saveCount(), "import persists once")

	list, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].ID)
	assert.Equal(t, "CA", list[0].State)
	assert.Equal(t, "01234", list[0].Zip)
	assert.Equal(t, 2, list[1].ID)
	assert.Equal(t, "", list[1].LotNumber)
}

func TestDirectoryImport_MissingHeaders(t *testing.T) {
	store, backend := newTestStore(t)
	service := NewDirectoryService(store, testLogger())
	saves := backend.saveCount()

	_, err := service.Import(context.Background(), []byte("Owner,Phone\nJane,1\n"))

	var headerErr *csvimport.HeaderError
	require.ErrorAs(t, err, &headerErr)
	assert.Equal(t, []string{"Address", "City", "Zip", "Email"}, headerErr.Missing)
	assert.Equal(t, []string{"Owner", "Phone"}, headerErr.Found)
	assert.Equal(t, saves, backend.saveCount())
}

func TestDirectoryImport_Windows1252(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewDirectoryService(store, testLogger())

	data := []byte("Owner,Phone,Address,City,Zip,Email\n" +
		"Ren\xe9e O\x92Hara,555,1 Rue,Qu\xe9bec,00001,r@x.org\n")

	result, err := service.Import(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, csvimport.EncodingWindows1252, result.Encoding)

	list, _ := service.List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, "Renée O’Hara", list[0].Owner)
	assert.Equal(t, "Québec", list[0].City)
}

func TestDirectoryImport_RowErrorsAreCapped(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewDirectoryService(store, testLogger())

	var b strings.Builder
	b.WriteString("Owner,Phone,Address,City,Zip,Email\n")
	b.WriteString("Good One,1,a,b,c,d\n")
	for i := 0; i < 7; i++ {
		b.WriteString(strings.Repeat("y", models.MaxCellLength+1) + ",1,a,b,c,d\n")
	}
	b.WriteString("Good Two,2,a,b,c,d\n")

	result, err := service.Import(context.Background(), []byte(b.String()))
	require.NoError(t, err)
	assert.True(t, result.Failed())
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 7, result.ErrorCount)
	require.Len(t, result.RowErrors, MaxReportedRowErrors)
	assert.Equal(t, 3, result.RowErrors[0].Row)
	assert.Contains(t, result.Messages()[0], "Row 3:")

	list, _ := service.List(context.Background())
	assert.Len(t, list, 2)
}

func TestDirectoryImport_UnassignedWindows1252Bytes(t *testing.T) {
	store, _ := newTestStore(t)
	service := NewDirectoryService(store, testLogger())

	data := []byte("Owner,Phone,Address,City,Zip,Email\nCaf\x81,1,a,b,c,d\n")
	result, err := service.Import(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, csvimport.EncodingLatin1, result.Encoding)
	assert.Equal(t, 1, result.Imported)

	list, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Caf\u0081", list[0].Owner)
}

func TestDirectoryImport_StorageFailureKeepsImage(t *testing.T) {
	store, backend := newTestStore(t)
	service := NewDirectoryService(store, testLogger())
	ctx := context.Background()
	_, err := service.Create(ctx, models.DirectoryFields{Owner: "Existing"})
	require.NoError(t, err)

	backend.failSaves(errDiskFull)
	_, err = service.Import(ctx, []byte("Owner,Phone,Address,City,Zip,Email\nNew,1,a,b,c,d\n"))

	var storageErr *repository.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, errDiskFull)

	list, _ := service.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "Existing", list[0].Owner)
}

func TestDirectoryList_StoreError(t *testing.T) {
	mockStore := new(MockStore)
	service := NewDirectoryService(mockStore, testLogger())
	ctx := context.Background()

	mockStore.On("Rows", ctx, models.TableDirectory).Return(nil, &repository.StorageError{Op: "load", Err: errDiskFull})

	_, err := service.List(ctx)
	assert.ErrorIs(t, err, errDiskFull)
	mockStore.AssertExpectations(t)
}

func TestDirectoryDelete_StoreError(t *testing.T) {
	mockStore := new(MockStore)
	service := NewDirectoryService(mockStore, testLogger())
	ctx := context.Background()

	mockStore.On("DeleteRow", ctx, models.TableDirectory, "1").Return(false, &repository.StorageError{Op: "save", Err: errDiskFull})

	err := service.Delete(ctx, "1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEntryNotFound)
	mockStore.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "Rows", mock.Anything, mock.Anything)
}
