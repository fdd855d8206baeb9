package menu

// Category buckets a detected dish by name keywords.
type Category string

const (
	CategorySalad Category = "salad"
	CategorySoup  Category = "soup"
	CategoryMain  Category = "main"
)

// Item is one menu entry detected in extracted page text.
type Item struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price,omitempty"`
	Category    Category `json:"category"`
}
