package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Point is one vertex of a lot-map region in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Coordinates is the ordered vertex list of a lot-map region.
// A polygon region may be open or closed; point and line regions use the
// same list with one or two entries. The list is stored in the workbook as
// JSON text in the Coordinates column.
type Coordinates []Point

// ParseCoordinates decodes the JSON text stored in a Coordinates cell.
// Blank or malformed text yields an empty list rather than an error, so a
// single damaged cell never hides the rest of the map.
func ParseCoordinates(text string) Coordinates {
	text = strings.TrimSpace(text)
	if text == "" {
		return Coordinates{}
	}

	var points []Point
	if err := json.Unmarshal([]byte(text), &points); err != nil {
		return Coordinates{}
	}
	if points == nil {
		return Coordinates{}
	}
	return Coordinates(points)
}

// Value encodes the coordinates as the JSON text written to the workbook.
// A nil list is written as "[]".
func (c Coordinates) Value() (string, error) {
	points := []Point(c)
	if points == nil {
		points = []Point{}
	}

	data, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("failed to marshal coordinates: %w", err)
	}
	return string(data), nil
}

// MarshalJSON implements json.Marshaler so API responses always carry a
// list, never null.
func (c Coordinates) MarshalJSON() ([]byte, error) {
	points := []Point(c)
	if points == nil {
		points = []Point{}
	}
	return json.Marshal(points)
}

// UnmarshalJSON implements json.Unmarshaler for request bodies.
// JSON null decodes to an empty list.
func (c *Coordinates) UnmarshalJSON(data []byte) error {
	var points []Point
	if err := json.Unmarshal(data, &points); err != nil {
		return fmt.Errorf("failed to unmarshal coordinates: %w", err)
	}
	if points == nil {
		points = []Point{}
	}
	*c = Coordinates(points)
	return nil
}
