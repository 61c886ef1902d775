package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waffle-wala/models"
)

func TestCustomizedLineFoldsToppingPrices(t *testing.T) {
	line, err := CustomizedLine("Normal Waffle", []string{"oreo", "Sprinkles"}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.LineCustomized, line.Kind)
	assert.Equal(t, 90, line.UnitPrice)
	assert.Equal(t, "Normal Waffle with Oreo Crush, Sprinkles", line.DisplayName)
	assert.Equal(t, "Normal Waffle", line.BaseName)
	assert.Equal(t, "Normal Waffle|Oreo Crush,Sprinkles|", line.Key())
}

func TestCustomizedLineRejectsForeignRemoval(t *testing.T) {
	_, err := CustomizedLine("Normal Maggi", nil, []string{"Without Mayo"})
	assert.True(t, errors.Is(err, ErrInvalidRemoval))

	_, err = CustomizedLine("Normal Maggi", []string{"oreo"}, nil)
	assert.True(t, errors.Is(err, ErrUnknownTopping))

	_, err = CustomizedLine("Lemonade", nil, nil)
	assert.True(t, errors.Is(err, ErrNotCustomizable))
}

func TestComboLineCarriesComponents(t *testing.T) {
	line, err := ComboLine("Party Combo")
	require.NoError(t, err)

	assert.True(t, line.IsCombo())
	assert.Equal(t, 200, line.UnitPrice)
	assert.Len(t, line.ComboComponents, 4)
}

func TestNamesCoversProductsAndCombos(t *testing.T) {
	names := Names()
	assert.Len(t, names, len(Products)+len(Combos))
	assert.Contains(t, names, "Waffle Combo")
	assert.Contains(t, names, "Creme & Cheese Popcorn")
}

func TestUnknownNames(t *testing.T) {
	_, err := SimpleLine("Pizza")
	assert.True(t, errors.Is(err, ErrUnknownProduct))
	_, err = ComboLine("Pizza Combo")
	assert.True(t, errors.Is(err, ErrUnknownCombo))
}
