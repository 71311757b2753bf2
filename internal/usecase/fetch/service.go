package fetch

import (
	"context"

	"countryquiz/internal/domain/entity"
)

// CountryFetcher retrieves the full list of independent countries.
// The returned slice keeps the order in which the source delivered it.
type CountryFetcher interface {
	Fetch(ctx context.Context) ([]entity.Country, error)
}

// FetcherFunc adapts a plain function to the CountryFetcher interface.
type FetcherFunc func(ctx context.Context) ([]entity.Country, error)

// Fetch calls f(ctx).
func (f FetcherFunc) Fetch(ctx context.Context) ([]entity.Country, error) {
	return f(ctx)
}
