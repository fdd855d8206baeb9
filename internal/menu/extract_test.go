package menu

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractItemWithPriceAndDescription(t *testing.T) {
	text := "Vegan Buddha Bowl   $12.50\nQuinoa, roasted chickpeas, avocado and tahini dressing."

	items := Extract(text)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	it := items[0]
	if it.Name != "Vegan Buddha Bowl $12.50" {
		t.Errorf("name = %q", it.Name)
	}
	if it.Price != "$12.50" {
		t.Errorf("price = %q", it.Price)
	}
	if it.Category != CategoryMain {
		t.Errorf("category = %q, want main", it.Category)
	}
	if it.Description != "Quinoa, roasted chickpeas, avocado and tahini dressing." {
		t.Errorf("description = %q", it.Description)
	}
}

func TestExtractSkipsLinesWithoutKeywords(t *testing.T) {
	text := "Grilled Chicken Sandwich $9.00\nClassic Cheeseburger $11.00"
	if items := Extract(text); len(items) != 0 {
		t.Fatalf("got %d items from keyword-free text, want 0", len(items))
	}
}

func TestExtractDedupesOnNameAndPrice(t *testing.T) {
	text := "Tofu Scramble $8.00\nTOFU SCRAMBLE $8.00\nTofu Scramble $9.00"
	items := Extract(text)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (same name+price collapses, different price survives)", len(items))
	}
}

func TestExtractCapsResultList(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "Vegan Curry Number %d $%d.00\n", i, i+1)
	}
	if items := Extract(b.String()); len(items) != 40 {
		t.Fatalf("got %d items, want cap of 40", len(items))
	}
}

func TestExtractStopsDescriptionAtHeader(t *testing.T) {
	text := "Lentil Soup $6.50\nSOUPS AND STEWS\nSlow simmered with cumin."
	items := Extract(text)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Description != "" {
		t.Errorf("description = %q, want empty (all-caps header stops look-ahead)", items[0].Description)
	}
	if items[0].Category != CategorySoup {
		t.Errorf("category = %q, want soup", items[0].Category)
	}
}

func TestExtractStopsDescriptionAtPricedLine(t *testing.T) {
	text := "Falafel Wrap $10.00\nHand-rolled with pickled onion.\nHummus Plate $7.00"
	items := Extract(text)
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Description != "Hand-rolled with pickled onion." {
		t.Errorf("description = %q", items[0].Description)
	}
}

func TestExtractDescriptionLineCanBeItsOwnItem(t *testing.T) {
	// Look-ahead does not consume lines: a prose line that itself hits the
	// vocabulary is both item 0's description and item 1.
	text := "Falafel Wrap $10.00\nHouse-made falafel with pickled onion.\nHummus Plate $7.00"
	items := Extract(text)
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if items[0].Description != "House-made falafel with pickled onion." {
		t.Errorf("item 0 description = %q", items[0].Description)
	}
	if items[1].Name != "House-made falafel with pickled onion." {
		t.Errorf("item 1 name = %q", items[1].Name)
	}
	if items[1].Price != "" {
		t.Errorf("item 1 price = %q, want none", items[1].Price)
	}
}

func TestExtractDescriptionLimitedToThreeLines(t *testing.T) {
	text := strings.Join([]string{
		"Mushroom Risotto $14.00",
		"Creamy arborio with porcini.",
		"Finished with truffle oil.",
		"A house favorite.",
		"Served after five only.",
	}, "\n")
	items := Extract(text)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	want := "Creamy arborio with porcini. Finished with truffle oil. A house favorite."
	if items[0].Description != want {
		t.Errorf("description = %q, want %q", items[0].Description, want)
	}
}

func TestExtractRejectsOverlongDescriptionLine(t *testing.T) {
	long := strings.Repeat("very tasty ", 25) // well over the prose bound
	text := "Beyond Burger $13.00\n" + long
	items := Extract(text)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Description != "" {
		t.Errorf("description = %q, want empty for overlong line", items[0].Description)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		line string
		want Category
	}{
		{"Kale Caesar Salad $9.00", CategorySalad},
		{"Vegan Salad Bowl", CategorySalad}, // salad outranks bowl
		{"Miso Soup with tofu", CategorySoup},
		{"Tempeh Wrap", CategoryMain},
		{"Jackfruit Curry", CategoryMain},
	}
	for _, tc := range cases {
		items := Extract(tc.line)
		if len(items) != 1 {
			t.Fatalf("Extract(%q) yielded %d items", tc.line, len(items))
		}
		if items[0].Category != tc.want {
			t.Errorf("category of %q = %q, want %q", tc.line, items[0].Category, tc.want)
		}
	}
}

func TestExtractPriceVariants(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"Vegan Pho $ 11.25", "$ 11.25"},
		{"Vegan Pho $11,25", "$11,25"},
		{"Vegan Pho $11", "$11"},
		{"Vegan Pho", ""},
	}
	for _, tc := range cases {
		items := Extract(tc.line)
		if len(items) != 1 {
			t.Fatalf("Extract(%q) yielded %d items", tc.line, len(items))
		}
		if items[0].Price != tc.want {
			t.Errorf("price of %q = %q, want %q", tc.line, items[0].Price, tc.want)
		}
	}
}

func TestConfigOverridesVocabulary(t *testing.T) {
	cfg := Config{Keywords: []string{"pierogi"}, MaxItems: 1}
	text := "Potato Pierogi $7.00\nVegan Bowl $9.00"
	items := cfg.Extract(text)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Name != "Potato Pierogi $7.00" {
		t.Errorf("name = %q", items[0].Name)
	}
}
