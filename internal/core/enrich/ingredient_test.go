package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBulletLines(t *testing.T) {
	e := NewExtractor()

	text := "Here is a simple cookie recipe!\n" +
		"\n" +
		"Ingredients:\n" +
		"- 2 cups flour\n" +
		"- 1 cup sugar\n" +
		"- mixer required\n" +
		"\n" +
		"Mix everything and bake at 350F."

	got := e.Extract(text)
	assert.Equal(t, []string{"flour", "sugar", "mixer required"}, got)
}

func TestExtractQuantityAndUnitForms(t *testing.T) {
	e := NewExtractor()

	cases := []struct {
		line string
		want string
	}{
		{"- 2 cups flour", "flour"},
		{"- 2 cups of flour", "flour"},
		{"- 1.5 tsp vanilla", "vanilla"},
		{"- 1 1/2 tsp baking soda", "baking soda"},
		{"- 1/2 cup milk", "milk"},
		{"- 1 large egg", "egg"},
		{"- 3 cloves garlic", "garlic"},
		{"- salt", "salt"},
		{"* 100 g dark chocolate", "dark chocolate"},
		{"• 2 tbsp olive oil", "olive oil"},
	}

	for _, tc := range cases {
		got := e.Extract(tc.line)
		assert.Equal(t, []string{tc.want}, got, "line: %s", tc.line)
	}
}

func TestExtractIgnoresNonBulletLines(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("2 cups flour\nPreheat the oven.\nIngredients:")
	assert.Empty(t, got)
}

func TestExtractDropsUnitOnlyLines(t *testing.T) {
	e := NewExtractor()

	// A bullet that reduces to nothing after stripping is not an ingredient.
	got := e.Extract("- 2 cups\n- 1 tbsp")
	assert.Empty(t, got)
}

func TestExtractDeduplicatesExactMatches(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("- flour\n- 2 cups flour\n- Flour")
	// Deduplication is case sensitive; "Flour" survives as written.
	assert.Equal(t, []string{"flour", "Flour"}, got)
}

func TestExtractEmptyInput(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExtractPreservesOrder(t *testing.T) {
	e := NewExtractor()

	got := e.Extract("- zucchini\n- apple\n- mango")
	assert.Equal(t, []string{"zucchini", "apple", "mango"}, got)
}
