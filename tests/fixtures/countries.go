// Package fixtures provides reusable country data for tests across packages.
package fixtures

import (
	"fmt"

	"countryquiz/internal/domain/entity"
)

// CountriesJSON is a trimmed REST Countries response with the fields the
// application requests. Extra fields such as nativeName and svg are kept to
// make sure decoding ignores them.
const CountriesJSON = `[
  {
    "flags": {"png": "https://flagcdn.com/w320/is.png", "svg": "https://flagcdn.com/is.svg", "alt": "The flag of Iceland"},
    "name": {"common": "Iceland", "official": "Iceland", "nativeName": {"isl": {"official": "Ísland", "common": "Ísland"}}},
    "latlng": [65.0, -18.0],
    "area": 103000.0,
    "population": 366425
  },
  {
    "flags": {"png": "https://flagcdn.com/w320/mc.png", "svg": "https://flagcdn.com/mc.svg"},
    "name": {"common": "Monaco", "official": "Principality of Monaco", "nativeName": {}},
    "latlng": [43.73333333, 7.4],
    "area": 2.02,
    "population": 39244
  },
  {
    "flags": {"png": "https://flagcdn.com/w320/br.png", "svg": "https://flagcdn.com/br.svg"},
    "name": {"common": "Brazil", "official": "Federative Republic of Brazil", "nativeName": {}},
    "latlng": [-10.0, -55.0],
    "area": 8515767.0,
    "population": 212559409
  },
  {
    "flags": {"png": "https://flagcdn.com/w320/jp.png", "svg": "https://flagcdn.com/jp.svg"},
    "name": {"common": "Japan", "official": "Japan", "nativeName": {}},
    "latlng": [36.0, 138.0],
    "area": 377930.0,
    "population": 125836021
  },
  {
    "flags": {"png": "https://flagcdn.com/w320/ke.png", "svg": "https://flagcdn.com/ke.svg"},
    "name": {"common": "Kenya", "official": "Republic of Kenya", "nativeName": {}},
    "latlng": [1.0, 38.0],
    "area": 580367.0,
    "population": 53771300
  },
  {
    "flags": {"png": "https://flagcdn.com/w320/nz.png", "svg": "https://flagcdn.com/nz.svg"},
    "name": {"common": "New Zealand", "official": "New Zealand", "nativeName": {}},
    "latlng": [-41.0, 174.0],
    "area": 270467.0,
    "population": 5084300
  }
]`

// CountriesCount is the number of elements in CountriesJSON.
const CountriesCount = 6

// CountryOption is a functional option for customizing test countries.
type CountryOption func(*entity.Country)

// NewTestCountry creates a valid country with sensible defaults.
// The flag URL is derived from the common name so every country built from a
// distinct name has a distinct flag.
//
// Example:
//
//	c := NewTestCountry("Aland")
//	c := NewTestCountry("Aland", WithPopulation(30000), WithArea(1580))
func NewTestCountry(common string, opts ...CountryOption) entity.Country {
	c := entity.NewCountry(common, "Republic of "+common, 1_000_000, 1_000,
		fmt.Sprintf("https://flags.test/%s.png", common),
		entity.Coordinates{Latitude: 10, Longitude: 20})

	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithPopulation sets the population.
func WithPopulation(p int64) CountryOption {
	return func(c *entity.Country) {
		c.Population = p
	}
}

// WithArea sets the area in square kilometres.
func WithArea(a float64) CountryOption {
	return func(c *entity.Country) {
		c.Area = a
	}
}

// WithOfficialName sets the official name.
func WithOfficialName(name string) CountryOption {
	return func(c *entity.Country) {
		c.Names.Official = name
	}
}

// NewTestCountries creates n countries named "Country 00", "Country 01" and so on.
func NewTestCountries(n int) []entity.Country {
	countries := make([]entity.Country, 0, n)
	for i := 0; i < n; i++ {
		countries = append(countries, NewTestCountry(fmt.Sprintf("Country %02d", i),
			WithPopulation(int64(1000*(i+1))),
			WithArea(float64(10*(n-i)))))
	}
	return countries
}
