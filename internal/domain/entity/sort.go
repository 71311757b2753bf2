package entity

import (
	"cmp"
	"fmt"
	"strings"
)

// SortCriterion selects the key used to order countries.
type SortCriterion int

const (
	SortByCommonName SortCriterion = iota
	SortByPopulation
	SortByArea
	SortByDensity
)

var sortCriterionNames = map[SortCriterion]string{
	SortByCommonName: "name",
	SortByPopulation: "population",
	SortByArea:       "area",
	SortByDensity:    "density",
}

// SortCriteria lists every criterion in menu order.
func SortCriteria() []SortCriterion {
	return []SortCriterion{SortByCommonName, SortByPopulation, SortByArea, SortByDensity}
}

// String returns the lowercase name used by flags and configuration.
func (s SortCriterion) String() string {
	if name, ok := sortCriterionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SortCriterion(%d)", int(s))
}

// Valid reports whether s is one of the declared criteria.
func (s SortCriterion) Valid() bool {
	_, ok := sortCriterionNames[s]
	return ok
}

// ParseSortCriterion resolves a criterion from its name. "commonName" and
// "common_name" are accepted as aliases of "name".
func ParseSortCriterion(name string) (SortCriterion, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "name", "commonname", "common_name":
		return SortByCommonName, nil
	case "population":
		return SortByPopulation, nil
	case "area":
		return SortByArea, nil
	case "density":
		return SortByDensity, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSortCriterion, name)
}

// UnmarshalText lets the criterion be decoded from env vars and YAML.
func (s *SortCriterion) UnmarshalText(text []byte) error {
	parsed, err := ParseSortCriterion(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// MarshalText encodes the criterion by name.
func (s SortCriterion) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSortCriterion, int(s))
	}
	return []byte(s.String()), nil
}

// Compare orders a and b by the criterion's key in ascending order.
// It returns a negative number when a < b, zero when equal and positive when a > b.
func (s SortCriterion) Compare(a, b Country) int {
	switch s {
	case SortByPopulation:
		return cmp.Compare(a.Population, b.Population)
	case SortByArea:
		return cmp.Compare(a.Area, b.Area)
	case SortByDensity:
		return cmp.Compare(a.Density(), b.Density())
	default:
		return strings.Compare(a.Names.Common, b.Names.Common)
	}
}
