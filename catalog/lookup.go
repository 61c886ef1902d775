package catalog

// FindProduct looks a product up by name.
func FindProduct(name string) (Product, bool) {
	for _, p := range Products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}

// FindCombo looks a combo up by name.
func FindCombo(name string) (Combo, bool) {
	for _, c := range Combos {
		if c.Name == name {
			return c, true
		}
	}
	return Combo{}, false
}

// FindTopping accepts either the topping key ("oreo") or its name ("Oreo Crush").
func FindTopping(keyOrName string) (Topping, bool) {
	for _, t := range Toppings {
		if t.Key == keyOrName || t.Name == keyOrName {
			return t, true
		}
	}
	return Topping{}, false
}

// AllowsRemoval reports whether label belongs to the product's removal group.
func AllowsRemoval(p Product, label string) bool {
	for _, r := range RemovalOptions[p.RemovalGroup] {
		if r == label {
			return true
		}
	}
	return false
}

// Names returns every product and combo name, the keys of the stock document.
func Names() []string {
	names := make([]string, 0, len(Products)+len(Combos))
	for _, p := range Products {
		names = append(names, p.Name)
	}
	for _, c := range Combos {
		names = append(names, c.Name)
	}
	return names
}

func InCurrentMenu(name string) bool {
	return contains(CurrentMenu, name)
}

func IsTopSeller(name string) bool {
	return contains(TopSellers, name)
}

func contains(list []string, name string) bool {
	for _, n := range list {
		if n == name {
			return true
		}
	}
	return false
}
