package models

// Table names as they appear in the persisted workbook.
const (
	TableDirectory     = "Directory"
	TableBoard         = "Board_of_Directors"
	TableCommittees    = "Committees"
	TableLotOwners     = "Lot_Owners"
	TableLotMapRegions = "Lot_Map_Regions"
)

// Directory columns
const (
	ColID        = "ID"
	ColOwner     = "Owner"
	ColPhone     = "Phone"
	ColAddress   = "Address"
	ColCity      = "City"
	ColState     = "State"
	ColZip       = "Zip"
	ColEmail     = "Email"
	ColLotNumber = "Lot_Number"
)

// Board_of_Directors columns
const (
	ColYear             = "Year"
	ColPosition         = "Position"
	ColName             = "Name"
	ColAdditionalDuties = "Additional_Duties"
	ColContactInfo      = "Contact_Info"
)

// Committees columns
const (
	ColCommitteeName = "Committee_Name"
	ColMemberName    = "Member_Name"
	ColRole          = "Role"
	ColMeetingNotes  = "Meeting_Notes"
)

// Lot_Owners columns
const (
	ColSurname    = "Surname"
	ColFirstName  = "FirstName"
	ColLotNumbers = "Lot_Numbers"
)

// Lot_Map_Regions columns
const (
	ColOwnerName   = "Owner_Name"
	ColRegionType  = "Region_Type"
	ColCoordinates = "Coordinates"
	ColLabelX      = "Label_X"
	ColLabelY      = "Label_Y"
)

// MaxCellLength is the longest text a single workbook cell can hold.
const MaxCellLength = 32767

// TableSchema describes one named table: its ordered header and the
// columns that get special treatment by the store.
type TableSchema struct {
	Name    string
	Columns []string
	// AutoID names the column holding a store-assigned integer ID.
	// Empty for tables identified by natural keys.
	AutoID string
	// Numeric columns are persisted as numbers when their text parses as one.
	Numeric []string
}

// HasColumn reports whether col is part of the schema header.
func (s TableSchema) HasColumn(col string) bool {
	for _, c := range s.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// ColumnIndex returns the position of col in the header, or -1.
func (s TableSchema) ColumnIndex(col string) int {
	for i, c := range s.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

var schemas = []TableSchema{
	{
		Name:    TableDirectory,
		Columns: []string{ColID, ColOwner, ColPhone, ColAddress, ColCity, ColState, ColZip, ColEmail, ColLotNumber},
		AutoID:  ColID,
		Numeric: []string{ColID},
	},
	{
		Name:    TableBoard,
		Columns: []string{ColYear, ColPosition, ColName, ColAdditionalDuties, ColContactInfo},
		Numeric: []string{ColYear},
	},
	{
		Name:    TableCommittees,
		Columns: []string{ColCommitteeName, ColMemberName, ColRole, ColContactInfo, ColMeetingNotes},
	},
	{
		Name:    TableLotOwners,
		Columns: []string{ColSurname, ColFirstName, ColLotNumbers},
	},
	{
		Name:    TableLotMapRegions,
		Columns: []string{ColLotNumber, ColOwnerName, ColRegionType, ColCoordinates, ColLabelX, ColLabelY},
		Numeric: []string{ColLabelX, ColLabelY},
	},
}

// Schemas returns every table schema in workbook order.
func Schemas() []TableSchema {
	out := make([]TableSchema, len(schemas))
	copy(out, schemas)
	return out
}

// LookupSchema finds a schema by exact table name.
func LookupSchema(name string) (TableSchema, bool) {
	for _, s := range schemas {
		if s.Name == name {
			return s, true
		}
	}
	return TableSchema{}, false
}

// Row is one table record keyed by header name.
type Row map[string]string

// IsEmpty reports whether every cell of the row is the empty string.
// Whitespace counts as content.
func (r Row) IsEmpty() bool {
	for _, v := range r {
		if v != "" {
			return false
		}
	}
	return true
}
