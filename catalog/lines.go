package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yeremiapane/waffle-wala/models"
)

var (
	ErrUnknownProduct  = errors.New("unknown product")
	ErrUnknownCombo    = errors.New("unknown combo")
	ErrNotCustomizable = errors.New("product cannot be customized")
	ErrUnknownTopping  = errors.New("unknown topping")
	ErrInvalidRemoval  = errors.New("removal not offered for this product")
)

// SimpleLine builds a plain line for a product at catalog price.
func SimpleLine(name string) (models.CartLine, error) {
	p, ok := FindProduct(name)
	if !ok {
		return models.CartLine{}, fmt.Errorf("%w: %s", ErrUnknownProduct, name)
	}
	return models.CartLine{
		Kind:        models.LineSimple,
		DisplayName: p.Name,
		UnitPrice:   p.Price,
		Quantity:    1,
	}, nil
}

// CustomizedLine builds a line with toppings and removals folded in.
// Topping prices are added to the unit price; removals never change it.
func CustomizedLine(name string, toppings, removals []string) (models.CartLine, error) {
	p, ok := FindProduct(name)
	if !ok {
		return models.CartLine{}, fmt.Errorf("%w: %s", ErrUnknownProduct, name)
	}
	if !p.Customizable {
		return models.CartLine{}, fmt.Errorf("%w: %s", ErrNotCustomizable, name)
	}

	price := p.Price
	var toppingNames []string
	seen := map[string]bool{}
	for _, raw := range toppings {
		t, ok := FindTopping(raw)
		if !ok || !p.HasToppings {
			return models.CartLine{}, fmt.Errorf("%w: %s", ErrUnknownTopping, raw)
		}
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		toppingNames = append(toppingNames, t.Name)
		price += t.Price
	}

	var removalLabels []string
	seen = map[string]bool{}
	for _, r := range removals {
		if !AllowsRemoval(p, r) {
			return models.CartLine{}, fmt.Errorf("%w: %s", ErrInvalidRemoval, r)
		}
		if seen[r] {
			continue
		}
		seen[r] = true
		removalLabels = append(removalLabels, r)
	}

	display := p.Name
	if len(toppingNames) > 0 {
		display += " with " + strings.Join(toppingNames, ", ")
	}

	return models.CartLine{
		Kind:        models.LineCustomized,
		DisplayName: display,
		BaseName:    p.Name,
		UnitPrice:   price,
		Quantity:    1,
		Toppings:    toppingNames,
		Removals:    removalLabels,
	}, nil
}

// ComboLine builds a combo line at the fixed combo price.
func ComboLine(name string) (models.CartLine, error) {
	c, ok := FindCombo(name)
	if !ok {
		return models.CartLine{}, fmt.Errorf("%w: %s", ErrUnknownCombo, name)
	}
	components := make([]models.ComboComponent, 0, len(c.Items))
	for _, it := range c.Items {
		components = append(components, models.ComboComponent{Name: it.Name, Quantity: it.Quantity})
	}
	return models.CartLine{
		Kind:            models.LineCombo,
		DisplayName:     c.Name,
		UnitPrice:       c.Price,
		Quantity:        1,
		ComboComponents: components,
	}, nil
}
