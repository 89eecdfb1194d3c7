package mason

import (
	"fmt"
	"time"
)

// Area is the domain view of an area item or area resource.
type Area struct {
	Name     string `json:"name"               yaml:"name"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// DecodeArea reads the area fields of a representation.
func DecodeArea(rep *Representation) (*Area, error) {
	var area Area

	err := rep.Decode(&area)
	if err != nil {
		return nil, fmt.Errorf("decoding area: %w", err)
	}

	return &area, nil
}

// Measurement is one sample in a paginated measurements collection.
type Measurement struct {
	Time  time.Time `json:"time"  yaml:"time"`
	Value float64   `json:"value" yaml:"value"`
}

// DecodeMeasurement reads the measurement fields of a representation.
func DecodeMeasurement(rep *Representation) (*Measurement, error) {
	var measurement Measurement

	err := rep.Decode(&measurement)
	if err != nil {
		return nil, fmt.Errorf("decoding measurement: %w", err)
	}

	return &measurement, nil
}
