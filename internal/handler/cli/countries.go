// Package cli renders the catalog and runs the flag quiz in a terminal.
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"countryquiz/internal/domain/entity"
	"countryquiz/internal/utils/text"
)

// officialNameWidth keeps long official names from stretching the table.
const officialNameWidth = 40

// PrintCountries writes countries as an aligned table in the given order.
// limit <= 0 prints all of them.
func PrintCountries(w io.Writer, countries []entity.Country, limit int) error {
	if limit > 0 && limit < len(countries) {
		countries = countries[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tOFFICIAL NAME\tPOPULATION\tAREA (km²)\tDENSITY (ppl/km²)")
	for _, c := range countries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.Names.Common,
			text.Truncate(c.Names.Official, officialNameWidth),
			text.FormatInt(c.Population),
			text.FormatDecimal(c.Area, text.DefaultFractionDigits),
			text.FormatDecimal(c.Density(), text.DefaultFractionDigits),
		)
	}
	return tw.Flush()
}

// PrintCountry writes every field of one country.
func PrintCountry(w io.Writer, c entity.Country) error {
	_, err := fmt.Fprintf(w,
		"%s\n"+
			"Official Name: %s\n"+
			"Population: %s\n"+
			"Area: %s km²\n"+
			"Density: %s ppl / km²\n"+
			"Coordinates: %s, %s\n"+
			"Flag: %s\n",
		c.Names.Common,
		c.Names.Official,
		text.FormatInt(c.Population),
		text.FormatDecimal(c.Area, text.DefaultFractionDigits),
		text.FormatDecimal(c.Density(), text.DefaultFractionDigits),
		text.FormatDecimal(c.Coordinates.Latitude, text.DefaultFractionDigits),
		text.FormatDecimal(c.Coordinates.Longitude, text.DefaultFractionDigits),
		c.FlagImageURL(),
	)
	return err
}
