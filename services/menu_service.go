package services

import (
	"context"

	"github.com/yeremiapane/waffle-wala/catalog"
	"github.com/yeremiapane/waffle-wala/models"
)

// MenuItem is a catalog entry with its live stock and badges.
type MenuItem struct {
	Name         string              `json:"name"`
	Price        int                 `json:"price"`
	Description  string              `json:"description"`
	Image        string              `json:"image"`
	Kind         models.LineKind     `json:"kind"`
	Customizable bool                `json:"customizable"`
	HasToppings  bool                `json:"hasToppings"`
	Removals     []string            `json:"removals,omitempty"`
	ComboItems   []catalog.ComboItem `json:"comboItems,omitempty"`
	Savings      string              `json:"savings,omitempty"`
	WebExclusive bool                `json:"webExclusive"`
	Quantity     int                 `json:"quantity"`
	OutOfStock   bool                `json:"outOfStock"`
	ComingSoon   bool                `json:"comingSoon"`
	LowStock     bool                `json:"lowStock"`
	TopSeller    bool                `json:"topSeller"`
}

type MenuSection struct {
	catalog.Category
	Items []MenuItem `json:"items"`
}

type Menu struct {
	Sections    []MenuSection     `json:"sections"`
	Toppings    []catalog.Topping `json:"toppings"`
	DeliveryFee int               `json:"deliveryFee"`
}

type MenuService struct {
	stock *StockGateway
}

func NewMenuService(stock *StockGateway) *MenuService {
	return &MenuService{stock: stock}
}

// Badges fills the stock-derived flags of an item.
func (m *MenuItem) Badges(qty int) {
	m.Quantity = qty
	m.OutOfStock = qty <= 0
	m.ComingSoon = m.OutOfStock && !catalog.InCurrentMenu(m.Name)
	m.LowStock = !m.ComingSoon && qty > 0 && qty <= LowStockThreshold
	m.TopSeller = catalog.IsTopSeller(m.Name) && !m.OutOfStock
}

// Menu builds every category section against the current stock.
func (s *MenuService) Menu(ctx context.Context) (*Menu, error) {
	stock, err := s.stock.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	menu := &Menu{Toppings: catalog.Toppings, DeliveryFee: catalog.DeliveryFee}
	for _, cat := range catalog.Categories {
		section := MenuSection{Category: cat, Items: []MenuItem{}}
		if cat.ID == catalog.CategoryCombos {
			for _, c := range catalog.Combos {
				item := MenuItem{
					Name:        c.Name,
					Price:       c.Price,
					Description: c.Description,
					Image:       c.Image,
					Kind:        models.LineCombo,
					ComboItems:  c.Items,
					Savings:     c.Savings,
				}
				item.Badges(stock.Quantity(c.Name))
				section.Items = append(section.Items, item)
			}
		}
		for _, p := range catalog.Products {
			if p.Category != cat.ID {
				continue
			}
			item := MenuItem{
				Name:         p.Name,
				Price:        p.Price,
				Description:  p.Description,
				Image:        p.Image,
				Kind:         models.LineSimple,
				Customizable: p.Customizable,
				HasToppings:  p.HasToppings,
				Removals:     catalog.RemovalOptions[p.RemovalGroup],
				WebExclusive: p.WebExclusive,
			}
			if p.Customizable {
				item.Kind = models.LineCustomized
			}
			item.Badges(stock.Quantity(p.Name))
			section.Items = append(section.Items, item)
		}
		menu.Sections = append(menu.Sections, section)
	}
	return menu, nil
}
