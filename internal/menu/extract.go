package menu

import (
	"regexp"
	"strings"
)

// defaultKeywords is the relevance vocabulary: a line produces an item only
// if it contains one of these. It is a heuristic filter, not a dietary
// guarantee.
var defaultKeywords = []string{
	"vegan",
	"plant",
	"tofu",
	"tempeh",
	"falafel",
	"mushroom",
	"lentil",
	"bean",
	"veg",
	"bowl",
	"salad",
	"wrap",
	"noodle",
	"rice",
	"curry",
	"hummus",
	"impossible",
	"beyond",
}

var (
	// pricePattern matches a dollar amount: $, optional space, digits,
	// optional two-digit fraction with . or , separator.
	pricePattern = regexp.MustCompile(`\$\s?\d+(?:[.,]\d{2})?`)
	// headerPattern matches all-caps section headers like "STARTERS" or
	// "COLD DRINKS" that should never join a description.
	headerPattern = regexp.MustCompile(`^[A-Z\s]{2,}$`)
)

// Config holds the extraction tunables. The zero value behaves like the
// production defaults; set a field to override it.
type Config struct {
	// Keywords is the relevance vocabulary matched against lowercased lines.
	Keywords []string
	// MaxItems caps the result list.
	MaxItems int
	// MaxDescriptionLines bounds the look-ahead for description prose.
	MaxDescriptionLines int
	// MaxDescriptionLineLen is the length above which a line stops looking
	// like prose.
	MaxDescriptionLineLen int
}

const (
	defaultMaxItems              = 40
	defaultMaxDescriptionLines   = 3
	defaultMaxDescriptionLineLen = 220
)

func (c Config) keywords() []string {
	if len(c.Keywords) > 0 {
		return c.Keywords
	}
	return defaultKeywords
}

func (c Config) maxItems() int {
	if c.MaxItems > 0 {
		return c.MaxItems
	}
	return defaultMaxItems
}

func (c Config) maxDescriptionLines() int {
	if c.MaxDescriptionLines > 0 {
		return c.MaxDescriptionLines
	}
	return defaultMaxDescriptionLines
}

func (c Config) maxDescriptionLineLen() int {
	if c.MaxDescriptionLineLen > 0 {
		return c.MaxDescriptionLineLen
	}
	return defaultMaxDescriptionLineLen
}

// Extract scans plain page text line by line and assembles menu items from
// lines that hit the keyword vocabulary. Items are deduplicated on
// (lowercased name, price) and the list is capped, preserving first-seen
// order.
func Extract(text string) []Item {
	return Config{}.Extract(text)
}

func (c Config) Extract(text string) []Item {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		if line := strings.TrimSpace(raw); line != "" {
			lines = append(lines, line)
		}
	}

	seen := make(map[string]struct{})
	var items []Item

	for i, line := range lines {
		lower := strings.ToLower(line)
		if !containsAny(lower, c.keywords()) {
			continue
		}

		name := strings.Join(strings.Fields(line), " ")
		if name == "" {
			continue
		}

		price := pricePattern.FindString(line)

		var descLines []string
		limit := c.maxDescriptionLines()
		for j := i + 1; j < len(lines) && j <= i+limit; j++ {
			if !c.looksLikeProse(lines[j]) {
				break
			}
			descLines = append(descLines, lines[j])
		}

		key := strings.ToLower(name) + "|" + price
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		items = append(items, Item{
			Name:        name,
			Description: strings.Join(descLines, " "),
			Price:       price,
			Category:    categorize(lower),
		})
		if len(items) >= c.maxItems() {
			break
		}
	}
	return items
}

// looksLikeProse accepts a line into a running description: no dollar
// amount, not overlong, and not an all-caps header.
func (c Config) looksLikeProse(line string) bool {
	if pricePattern.MatchString(line) {
		return false
	}
	if len(line) >= c.maxDescriptionLineLen() {
		return false
	}
	if headerPattern.MatchString(line) {
		return false
	}
	return true
}

// categorize assigns a category by keyword precedence on the lowercased
// name line: salad wins over soup, soup over the main-course words, and
// everything else defaults to main.
func categorize(lower string) Category {
	switch {
	case strings.Contains(lower, "salad"):
		return CategorySalad
	case strings.Contains(lower, "soup"):
		return CategorySoup
	default:
		return CategoryMain
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
