package models

import (
	"sort"
	"strings"
)

// LineKind tags the shape of a cart line.
type LineKind string

const (
	LineSimple     LineKind = "simple"
	LineCustomized LineKind = "customized"
	LineCombo      LineKind = "combo"
)

type ComboComponent struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CartLine is one row of a cart. UnitPrice is frozen when the line is first added
// and already includes topping prices.
type CartLine struct {
	Kind            LineKind         `json:"kind"`
	DisplayName     string           `json:"name"`
	BaseName        string           `json:"baseName,omitempty"`
	UnitPrice       int              `json:"price"`
	Quantity        int              `json:"quantity"`
	Toppings        []string         `json:"toppings,omitempty"`
	Removals        []string         `json:"removals,omitempty"`
	ComboComponents []ComboComponent `json:"comboItems,omitempty"`
}

// ProductName is the base product name, falling back to the display name.
func (l CartLine) ProductName() string {
	if l.BaseName != "" {
		return l.BaseName
	}
	return l.DisplayName
}

func (l CartLine) IsCombo() bool {
	return l.Kind == LineCombo
}

// Key is the identity key used to merge lines.
func (l CartLine) Key() string {
	return LineKey(l.ProductName(), l.Toppings, l.Removals)
}

func (l CartLine) LineTotal() int {
	return l.UnitPrice * l.Quantity
}

// Normalize fills in Kind for lines persisted without one and clamps Quantity to 1.
func (l *CartLine) Normalize() {
	if l.Quantity < 1 {
		l.Quantity = 1
	}
	if l.Kind != "" {
		return
	}
	switch {
	case len(l.ComboComponents) > 0:
		l.Kind = LineCombo
	case l.BaseName != "" || len(l.Toppings) > 0 || len(l.Removals) > 0:
		l.Kind = LineCustomized
	default:
		l.Kind = LineSimple
	}
}

// LineKey builds "name|sorted toppings|sorted removals".
func LineKey(name string, toppings, removals []string) string {
	return name + "|" + sortedJoin(toppings) + "|" + sortedJoin(removals)
}

func sortedJoin(values []string) string {
	cp := append([]string(nil), values...)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}
