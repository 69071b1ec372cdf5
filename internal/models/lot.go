package models

import (
	"strconv"
	"strings"
)

// LotOwner is one Lot_Owners row. (Surname, FirstName) is its natural key.
type LotOwner struct {
	Surname    string `json:"Surname" binding:"max=32767"`
	FirstName  string `json:"FirstName" binding:"max=32767"`
	LotNumbers string `json:"Lot_Numbers" binding:"max=32767"`
}

// LotOwnerFromRow maps a Lot_Owners row to a typed owner.
func LotOwnerFromRow(r Row) LotOwner {
	return LotOwner{
		Surname:    r[ColSurname],
		FirstName:  r[ColFirstName],
		LotNumbers: r[ColLotNumbers],
	}
}

// Row converts the owner to a Lot_Owners row.
func (o LotOwner) Row() Row {
	return Row{
		ColSurname:    o.Surname,
		ColFirstName:  o.FirstName,
		ColLotNumbers: o.LotNumbers,
	}
}

// HasKey reports whether both parts of the natural key are present.
func (o LotOwner) HasKey() bool {
	return strings.TrimSpace(o.Surname) != "" && strings.TrimSpace(o.FirstName) != ""
}

// DefaultRegionType is the shape assumed when a region is saved without one.
const DefaultRegionType = "polygon"

// LotMapRegion is one drawn region of the lot map.
type LotMapRegion struct {
	LotNumber   string      `json:"Lot_Number"`
	OwnerName   string      `json:"Owner_Name"`
	RegionType  string      `json:"Region_Type"`
	Coordinates Coordinates `json:"Coordinates"`
	LabelX      float64     `json:"Label_X"`
	LabelY      float64     `json:"Label_Y"`
}

// LotMapRegionFromRow maps a Lot_Map_Regions row to a typed region,
// decoding the Coordinates cell. Unparseable label positions map to 0.
func LotMapRegionFromRow(r Row) LotMapRegion {
	return LotMapRegion{
		LotNumber:   r[ColLotNumber],
		OwnerName:   r[ColOwnerName],
		RegionType:  r[ColRegionType],
		Coordinates: ParseCoordinates(r[ColCoordinates]),
		LabelX:      parseFloat(r[ColLabelX]),
		LabelY:      parseFloat(r[ColLabelY]),
	}
}

// Row converts the region to a Lot_Map_Regions row.
func (m LotMapRegion) Row() (Row, error) {
	coords, err := m.Coordinates.Value()
	if err != nil {
		return nil, err
	}
	return Row{
		ColLotNumber:   m.LotNumber,
		ColOwnerName:   m.OwnerName,
		ColRegionType:  m.RegionType,
		ColCoordinates: coords,
		ColLabelX:      strconv.FormatFloat(m.LabelX, 'f', -1, 64),
		ColLabelY:      strconv.FormatFloat(m.LabelY, 'f', -1, 64),
	}, nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
