// Package entity defines the core domain entities and validation logic for the application.
// It contains the Country record decoded from the REST Countries payload, the sort
// criteria used by the catalog, and the immutable quiz question type.
package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// Country represents a single sovereign state as published by the countries API.
// ID is generated at decode time and is not part of the wire format.
type Country struct {
	ID          uuid.UUID
	Names       Names
	Population  int64   `validate:"gte=0"`
	Area        float64 `validate:"gte=0"`
	Flag        Flag
	Coordinates Coordinates
}

// Names holds the common and official names of a country.
// The common name is the display key and the quiz answer key.
type Names struct {
	Common   string `json:"common" validate:"required"`
	Official string `json:"official" validate:"required"`
}

// Flag holds the flag image references of a country.
type Flag struct {
	PNG string `json:"png" validate:"required"`
}

// Coordinates is the geographic centre of a country in decimal degrees.
// On the wire it is an ordered pair: [latitude, longitude].
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// NewCountry builds a Country with a freshly generated ID.
func NewCountry(common, official string, population int64, area float64, flagURL string, coords Coordinates) Country {
	return Country{
		ID:          uuid.New(),
		Names:       Names{Common: common, Official: official},
		Population:  population,
		Area:        area,
		Flag:        Flag{PNG: flagURL},
		Coordinates: coords,
	}
}

// Density returns inhabitants per km².
// Territories reporting no area have a density of 0.
func (c Country) Density() float64 {
	if c.Area <= 0 {
		return 0
	}
	return float64(c.Population) / c.Area
}

// FlagImageURL returns the raw flag image URL string.
func (c Country) FlagImageURL() string {
	return c.Flag.PNG
}

// FlagURL parses the flag image URL.
// The decoder only guarantees that a string is present, so callers rendering the
// flag should tolerate an error here.
func (c Country) FlagURL() (*url.URL, error) {
	if err := ValidateURL(c.Flag.PNG); err != nil {
		return nil, err
	}
	return url.Parse(c.Flag.PNG)
}

// Validate checks the invariants every decoded country must satisfy.
func (c Country) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ValidationError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed on '%s' rule", fe.Tag()),
			}
		}
		return fmt.Errorf("validate country: %w", err)
	}
	return nil
}

// wireCountry mirrors one element of the API payload.
// Pointers distinguish a missing field from a zero value.
type wireCountry struct {
	Name *struct {
		Common   *string `json:"common"`
		Official *string `json:"official"`
	} `json:"name"`
	Population *int64       `json:"population"`
	Area       *float64     `json:"area"`
	Flags      *Flag        `json:"flags"`
	LatLng     *Coordinates `json:"latlng"`
}

// UnmarshalJSON decodes a country from the API shape and assigns it a new ID.
// Every field is required; a missing field or malformed latlng pair is an error.
func (c *Country) UnmarshalJSON(data []byte) error {
	var w wireCountry
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	switch {
	case w.Name == nil:
		return missingField("name")
	case w.Name.Common == nil:
		return missingField("name.common")
	case w.Name.Official == nil:
		return missingField("name.official")
	case w.Population == nil:
		return missingField("population")
	case w.Area == nil:
		return missingField("area")
	case w.Flags == nil:
		return missingField("flags")
	case w.LatLng == nil:
		return missingField("latlng")
	}

	decoded := Country{
		ID:          uuid.New(),
		Names:       Names{Common: *w.Name.Common, Official: *w.Name.Official},
		Population:  *w.Population,
		Area:        *w.Area,
		Flag:        *w.Flags,
		Coordinates: *w.LatLng,
	}
	if err := decoded.Validate(); err != nil {
		return err
	}

	*c = decoded
	return nil
}

// MarshalJSON encodes the country back into the API shape. The ID is omitted.
func (c Country) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name       Names       `json:"name"`
		Population int64       `json:"population"`
		Area       float64     `json:"area"`
		Flags      Flag        `json:"flags"`
		LatLng     Coordinates `json:"latlng"`
	}{
		Name:       c.Names,
		Population: c.Population,
		Area:       c.Area,
		Flags:      c.Flag,
		LatLng:     c.Coordinates,
	})
}

// UnmarshalJSON decodes a [latitude, longitude] pair.
func (p *Coordinates) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) < 2 {
		return &ValidationError{
			Field:   "latlng",
			Message: fmt.Sprintf("expected [latitude, longitude], got %d element(s)", len(pair)),
		}
	}
	p.Latitude = pair[0]
	p.Longitude = pair[1]
	return nil
}

// MarshalJSON encodes the coordinates as a [latitude, longitude] pair.
func (p Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Latitude, p.Longitude})
}

func missingField(field string) error {
	return &ValidationError{Field: field, Message: "field is required"}
}
