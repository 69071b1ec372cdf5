package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DirectoryEntry is one member record of the Directory table.
// JSON keys match the workbook header names used by the web client.
type DirectoryEntry struct {
	Owner     string `json:"Owner"`
	Phone     string `json:"Phone"`
	Address   string `json:"Address"`
	City      string `json:"City"`
	State     string `json:"State"`
	Zip       string `json:"Zip"`
	Email     string `json:"Email"`
	LotNumber string `json:"Lot_Number"`
	ID        int    `json:"ID"`
}

// DirectoryEntryFromRow maps a Directory row to a typed entry.
// A non-integer ID cell maps to 0.
func DirectoryEntryFromRow(r Row) DirectoryEntry {
	id, _ := strconv.Atoi(strings.TrimSpace(r[ColID]))
	return DirectoryEntry{
		ID:        id,
		Owner:     r[ColOwner],
		Phone:     r[ColPhone],
		Address:   r[ColAddress],
		City:      r[ColCity],
		State:     r[ColState],
		Zip:       r[ColZip],
		Email:     r[ColEmail],
		LotNumber: r[ColLotNumber],
	}
}

// DirectoryFields holds the caller-supplied fields of a new entry.
// ID is accepted so existing clients can echo it back, but the store
// always assigns its own.
type DirectoryFields struct {
	ID        json.RawMessage `json:"ID,omitempty"`
	Owner     string          `json:"Owner" binding:"max=32767"`
	Phone     string          `json:"Phone" binding:"max=32767"`
	Address   string          `json:"Address" binding:"max=32767"`
	City      string          `json:"City" binding:"max=32767"`
	State     string          `json:"State" binding:"max=32767"`
	Zip       string          `json:"Zip" binding:"max=32767"`
	Email     string          `json:"Email" binding:"max=32767"`
	LotNumber string          `json:"Lot_Number" binding:"max=32767"`
}

// Row converts the fields to a Directory row without an ID.
func (f DirectoryFields) Row() Row {
	return Row{
		ColOwner:     f.Owner,
		ColPhone:     f.Phone,
		ColAddress:   f.Address,
		ColCity:      f.City,
		ColState:     f.State,
		ColZip:       f.Zip,
		ColEmail:     f.Email,
		ColLotNumber: f.LotNumber,
	}
}

// DirectoryPatch is a partial update: only non-nil fields are written.
// ID is accepted and ignored; IDs are never reassigned.
type DirectoryPatch struct {
	ID        json.RawMessage `json:"ID,omitempty"`
	Owner     *string         `json:"Owner,omitempty" binding:"omitempty,max=32767"`
	Phone     *string         `json:"Phone,omitempty" binding:"omitempty,max=32767"`
	Address   *string         `json:"Address,omitempty" binding:"omitempty,max=32767"`
	City      *string         `json:"City,omitempty" binding:"omitempty,max=32767"`
	State     *string         `json:"State,omitempty" binding:"omitempty,max=32767"`
	Zip       *string         `json:"Zip,omitempty" binding:"omitempty,max=32767"`
	Email     *string         `json:"Email,omitempty" binding:"omitempty,max=32767"`
	LotNumber *string         `json:"Lot_Number,omitempty" binding:"omitempty,max=32767"`
}

// Row returns only the fields present in the patch.
func (p DirectoryPatch) Row() Row {
	out := Row{}
	set := func(col string, v *string) {
		if v != nil {
			out[col] = *v
		}
	}
	set(ColOwner, p.Owner)
	set(ColPhone, p.Phone)
	set(ColAddress, p.Address)
	set(ColCity, p.City)
	set(ColState, p.State)
	set(ColZip, p.Zip)
	set(ColEmail, p.Email)
	set(ColLotNumber, p.LotNumber)
	return out
}
