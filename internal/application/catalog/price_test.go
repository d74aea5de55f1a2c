package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Estoque-api/internal/application/catalog"
	"github.com/jhoicas/Estoque-api/internal/domain"
)

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"":        "0.00",
		"12,50":   "12.50",
		"12.5":    "12.50",
		" 3 ":     "3.00",
		"1.005":   "1.01",
		"0,004":   "0.00",
		"1000000": "1000000.00",
	}
	for in, want := range cases {
		got, err := catalog.ParsePrice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, catalog.FormatPrice(got), in)
	}
}

func TestParsePrice_Invalidos(t *testing.T) {
	for _, in := range []string{"abc", "-1", "-0,50", "1.2.3", "100000000"} {
		_, err := catalog.ParsePrice(in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, in)
	}
}
