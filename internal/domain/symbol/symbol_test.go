package symbol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/symbol"
)

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"vrf", "VRF"},
		{"  fídc-açaí 01 ", "FIDCACAI01"},
		{"Ñandú", "NANDU"},
		{"AGRO_2025", "AGRO2025"},
	}
	for _, tt := range tests {
		got, err := symbol.Normalize(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNormalize_Longitud(t *testing.T) {
	_, err := symbol.Normalize("á")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = symbol.Normalize("ABCDEFGHIJKLMN")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
