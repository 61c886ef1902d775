package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRupees(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "₹0"},
		{105, "₹105"},
		{1000, "₹1,000"},
		{123456, "₹1,23,456"},
		{1234567, "₹12,34,567"},
		{-250, "-₹250"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRupees(tt.amount))
	}
}

func TestTokenRoundTripAndRevocation(t *testing.T) {
	token, err := GenerateToken("admin")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)

	BlacklistToken(token)
	_, err = ValidateToken(token)
	assert.Error(t, err)

	_, err = ParseToken("not-a-token")
	assert.Error(t, err)
}
