package models

// BoardPosition is one Board_of_Directors row.
type BoardPosition struct {
	Year             string `json:"Year"`
	Position         string `json:"Position" binding:"max=32767"`
	Name             string `json:"Name" binding:"max=32767"`
	AdditionalDuties string `json:"Additional_Duties" binding:"max=32767"`
	ContactInfo      string `json:"Contact_Info" binding:"max=32767"`
}

// BoardPositionFromRow maps a Board_of_Directors row to a typed position.
func BoardPositionFromRow(r Row) BoardPosition {
	return BoardPosition{
		Year:             r[ColYear],
		Position:         r[ColPosition],
		Name:             r[ColName],
		AdditionalDuties: r[ColAdditionalDuties],
		ContactInfo:      r[ColContactInfo],
	}
}

// Row converts the position to a Board_of_Directors row.
func (p BoardPosition) Row() Row {
	return Row{
		ColYear:             p.Year,
		ColPosition:         p.Position,
		ColName:             p.Name,
		ColAdditionalDuties: p.AdditionalDuties,
		ColContactInfo:      p.ContactInfo,
	}
}

// DefaultCommitteeRole is used when a member row carries no role.
const DefaultCommitteeRole = "Member"

// CommitteeMember is one member of a committee.
type CommitteeMember struct {
	Name    string `json:"name" binding:"max=32767"`
	Role    string `json:"role" binding:"max=32767"`
	Contact string `json:"contact" binding:"max=32767"`
}

// Committee groups the members of one committee with its meeting notes.
type Committee struct {
	Members      []CommitteeMember `json:"members"`
	MeetingNotes string            `json:"meeting_notes"`
}
