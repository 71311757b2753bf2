package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortCriterion(t *testing.T) {
	tests := []struct {
		input   string
		want    SortCriterion
		wantErr bool
	}{
		{"name", SortByCommonName, false},
		{"commonName", SortByCommonName, false},
		{"common_name", SortByCommonName, false},
		{" Population ", SortByPopulation, false},
		{"area", SortByArea, false},
		{"DENSITY", SortByDensity, false},
		{"capital", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortCriterion(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSortCriterion))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortCriterion_TextRoundTrip(t *testing.T) {
	for _, c := range SortCriteria() {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var decoded SortCriterion
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, c, decoded)
	}

	_, err := SortCriterion(42).MarshalText()
	assert.Error(t, err)
	assert.False(t, SortCriterion(42).Valid())
	assert.Equal(t, "SortCriterion(42)", SortCriterion(42).String())
}

func TestSortCriterion_Compare(t *testing.T) {
	dense := Country{Names: Names{Common: "Malta"}, Population: 100, Area: 10}
	sparse := Country{Names: Names{Common: "Australia"}, Population: 50, Area: 10}

	tests := []struct {
		criterion SortCriterion
		want      int
	}{
		{SortByCommonName, 1},
		{SortByPopulation, 1},
		{SortByArea, 0},
		{SortByDensity, 1},
	}

	for _, tt := range tests {
		t.Run(tt.criterion.String(), func(t *testing.T) {
			got := tt.criterion.Compare(dense, sparse)
			switch {
			case tt.want > 0:
				assert.Positive(t, got)
			case tt.want < 0:
				assert.Negative(t, got)
			default:
				assert.Zero(t, got)
			}
			assert.Equal(t, -sign(got), sign(tt.criterion.Compare(sparse, dense)), "comparison must be antisymmetric")
		})
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
