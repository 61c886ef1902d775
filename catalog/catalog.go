// Package catalog holds the fixed menu of the stall. It is pure data.
package catalog

// DeliveryFee is added once per order.
const DeliveryFee = 10

// Categories
const (
	CategoryCombos     = "combos"
	CategoryDrinkables = "drinkables"
	CategorySnacks     = "snacks"
	CategoryWaffles    = "waffles"
	CategoryMaggi      = "maggi"
	CategorySandwiches = "sandwiches"
)

// Removal groups
const (
	RemovalMaggi    = "maggi"
	RemovalSandwich = "sandwich"
)

type Product struct {
	Name         string `json:"name"`
	Price        int    `json:"price"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	Customizable bool   `json:"customizable"`
	HasToppings  bool   `json:"hasToppings"`
	RemovalGroup string `json:"removalGroup,omitempty"`
	WebExclusive bool   `json:"webExclusive"`
}

type ComboItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Combo struct {
	Name        string      `json:"name"`
	Price       int         `json:"price"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Items       []ComboItem `json:"items"`
	Savings     string      `json:"savings"`
}

type Topping struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
}

const (
	imgLemonade = "https://images.unsplash.com/photo-1621263764928-df1444c5e859?w=600&q=80"
	imgSlushie  = "https://images.unsplash.com/photo-1625772299848-391b6a87d7b3?w=600&q=80"
	imgPopcorn  = "https://images.unsplash.com/photo-1585647347483-22b66260dfff?w=600&q=80"
	imgWaffle   = "https://images.unsplash.com/photo-1562376552-0d160a2f238d?w=600&q=80"
	imgMaggi    = "https://images.unsplash.com/photo-1612929633738-8fe44f7ec841?w=600&q=80"
	imgSandwich = "https://images.unsplash.com/photo-1528736235302-52922df5c122?w=600&q=80"
)

var Toppings = []Topping{
	{Key: "sprinkles", Name: "Sprinkles", Price: 5},
	{Key: "oreo", Name: "Oreo Crush", Price: 10},
	{Key: "chocolate", Name: "Chocolate Drizzle", Price: 5},
}

var RemovalOptions = map[string][]string{
	RemovalMaggi:    {"No Onion", "No Tomato", "No Capsicum", "Less Spicy", "Extra Spicy", "Without Masala"},
	RemovalSandwich: {"No Onion", "No Tomato", "No Capsicum", "No Cheese", "Without Mayo", "Extra Cheese"},
}

var Products = []Product{
	{Name: "Lemonade", Price: 10, Category: CategoryDrinkables, Image: imgLemonade, Description: "Freshly squeezed classic lemonade"},
	{Name: "Iced Lemonade", Price: 12, Category: CategoryDrinkables, Image: imgLemonade, Description: "Refreshing lemonade, ice-cold"},
	{Name: "Coke Slushie", Price: 30, Category: CategoryDrinkables, Image: imgSlushie, Description: "Frozen Coca-Cola slushie"},
	{Name: "Gatorade Slushie", Price: 30, Category: CategoryDrinkables, Image: imgSlushie, Description: "Energizing frozen Gatorade slush"},
	{Name: "Sprite Slushie", Price: 30, Category: CategoryDrinkables, Image: imgSlushie, Description: "Crisp lemon-lime frozen treat"},
	{Name: "Golden Sizzle Popcorn", Price: 15, Category: CategorySnacks, Image: imgPopcorn, Description: "2 cups classic salted popcorn"},
	{Name: "Butter Popcorn", Price: 25, Category: CategorySnacks, Image: imgPopcorn, Description: "Rich buttery popcorn"},
	{Name: "Creme & Cheese Popcorn", Price: 30, Category: CategorySnacks, Image: imgPopcorn, Description: "Creamy cheese flavoured popcorn"},
	{Name: "Mini Waffle", Price: 35, Category: CategoryWaffles, Image: imgWaffle, Description: "Crispy mini chocolate waffle", Customizable: true, HasToppings: true},
	{Name: "Normal Waffle", Price: 75, Category: CategoryWaffles, Image: imgWaffle, Description: "Full-size chocolate waffle with your toppings", Customizable: true, HasToppings: true},
	{Name: "Normal Maggi", Price: 15, Category: CategoryMaggi, Image: imgMaggi, Description: "Classic Maggi noodles, freshly made", Customizable: true, RemovalGroup: RemovalMaggi, WebExclusive: true},
	{Name: "Cheese Maggi", Price: 25, Category: CategoryMaggi, Image: imgMaggi, Description: "Extra-cheesy Maggi noodles", Customizable: true, RemovalGroup: RemovalMaggi, WebExclusive: true},
	{Name: "Grilled Sandwich", Price: 30, Category: CategorySandwiches, Image: imgSandwich, Description: "Classic grilled sandwich with fresh veggies", Customizable: true, RemovalGroup: RemovalSandwich, WebExclusive: true},
	{Name: "Cheese Grilled Sandwich", Price: 40, Category: CategorySandwiches, Image: imgSandwich, Description: "Loaded with melted cheese", Customizable: true, RemovalGroup: RemovalSandwich, WebExclusive: true},
}

var Combos = []Combo{
	{Name: "Waffle Combo", Price: 120, Image: imgWaffle, Description: "Normal Waffle + Lemonade + Sprinkles", Savings: "Save ₹15",
		Items: []ComboItem{{Name: "Normal Waffle", Quantity: 1}, {Name: "Lemonade", Quantity: 1}}},
	{Name: "Slushie Combo", Price: 85, Image: imgSlushie, Description: "Any Slushie + Butter Popcorn", Savings: "Save ₹10",
		Items: []ComboItem{{Name: "Coke Slushie", Quantity: 1}, {Name: "Butter Popcorn", Quantity: 1}}},
	{Name: "Maggi Meal", Price: 70, Image: imgMaggi, Description: "Cheese Maggi + Iced Lemonade", Savings: "Save ₹12",
		Items: []ComboItem{{Name: "Cheese Maggi", Quantity: 1}, {Name: "Iced Lemonade", Quantity: 1}}},
	{Name: "Party Combo", Price: 200, Image: imgWaffle, Description: "Normal Waffle + Cheese Maggi + 2 Slushies", Savings: "Save ₹35",
		Items: []ComboItem{{Name: "Normal Waffle", Quantity: 1}, {Name: "Cheese Maggi", Quantity: 1}, {Name: "Coke Slushie", Quantity: 1}, {Name: "Sprite Slushie", Quantity: 1}}},
}

var Categories = []Category{
	{ID: CategoryCombos, Label: "Combos", Title: "Combo Deals"},
	{ID: CategoryDrinkables, Label: "Drinks", Title: "Drinkables"},
	{ID: CategorySnacks, Label: "Popcorn", Title: "Popcorn & Snacks"},
	{ID: CategoryWaffles, Label: "Waffles", Title: "Waffles"},
	{ID: CategoryMaggi, Label: "Maggi", Title: "Maggi"},
	{ID: CategorySandwiches, Label: "Sandwiches", Title: "Grilled Sandwiches"},
}

// CurrentMenu lists what is being served this weekend. Anything else that is
// out of stock shows as "coming soon".
var CurrentMenu = []string{
	"Mini Waffle", "Normal Waffle",
	"Lemonade", "Iced Lemonade",
	"Golden Sizzle Popcorn", "Butter Popcorn",
}

// TopSellers get a badge while in stock.
var TopSellers = []string{"Normal Waffle", "Golden Sizzle Popcorn"}
