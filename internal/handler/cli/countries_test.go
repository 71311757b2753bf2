package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"countryquiz/internal/domain/entity"
	"countryquiz/internal/handler/cli"
	"countryquiz/tests/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brazil() entity.Country {
	return entity.NewCountry("Brazil", "Federative Republic of Brazil", 212559409, 8515767,
		"https://flagcdn.com/w320/br.png", entity.Coordinates{Latitude: -10, Longitude: -55})
}

func TestPrintCountries(t *testing.T) {
	var buf bytes.Buffer
	countries := []entity.Country{
		brazil(),
		fixtures.NewTestCountry("Monaco", fixtures.WithPopulation(39244), fixtures.WithArea(2.02)),
	}

	require.NoError(t, cli.PrintCountries(&buf, countries, 0))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[0], "DENSITY (ppl/km²)")

	assert.True(t, strings.HasPrefix(lines[1], "Brazil"))
	assert.Contains(t, lines[1], "212,559,409")
	assert.Contains(t, lines[1], "8,515,767")
	assert.Contains(t, lines[1], "24.96")

	assert.True(t, strings.HasPrefix(lines[2], "Monaco"))
	assert.Contains(t, lines[2], "39,244")
	assert.Contains(t, lines[2], "2.02")
	assert.Contains(t, lines[2], "19,427.72")
}

func TestPrintCountries_Limit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "no limit", limit: 0, want: 5},
		{name: "negative is no limit", limit: -1, want: 5},
		{name: "limited", limit: 2, want: 2},
		{name: "limit above size", limit: 10, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, cli.PrintCountries(&buf, fixtures.NewTestCountries(5), tt.limit))

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			assert.Len(t, lines, tt.want+1, "rows plus header")
		})
	}
}

func TestPrintCountries_TruncatesOfficialName(t *testing.T) {
	var buf bytes.Buffer
	long := fixtures.NewTestCountry("Britain",
		fixtures.WithOfficialName("United Kingdom of Great Britain and Northern Ireland"))

	require.NoError(t, cli.PrintCountries(&buf, []entity.Country{long}, 0))

	assert.NotContains(t, buf.String(), "Northern Ireland")
	assert.Contains(t, buf.String(), "…")
}

func TestPrintCountry(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, cli.PrintCountry(&buf, brazil()))

	want := "Brazil\n" +
		"Official Name: Federative Republic of Brazil\n" +
		"Population: 212,559,409\n" +
		"Area: 8,515,767 km²\n" +
		"Density: 24.96 ppl / km²\n" +
		"Coordinates: -10, -55\n" +
		"Flag: https://flagcdn.com/w320/br.png\n"
	assert.Equal(t, want, buf.String())
}
