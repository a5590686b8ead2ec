package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildShoppingLinks(t *testing.T) {
	links := BuildShoppingLinks([]string{"eggs", "milk"})
	assert.Equal(t, "https://www.instacart.com/store/s?k=eggs,milk", links.Instacart)
	assert.Equal(t, "https://www.amazon.com/s?k=eggs,milk", links.Amazon)
}

func TestBuildShoppingLinksSingleItem(t *testing.T) {
	links := BuildShoppingLinks([]string{"flour"})
	assert.Equal(t, "https://www.instacart.com/store/s?k=flour", links.Instacart)
	assert.Equal(t, "https://www.amazon.com/s?k=flour", links.Amazon)
}

func TestBuildShoppingLinksEmpty(t *testing.T) {
	links := BuildShoppingLinks(nil)
	assert.Empty(t, links.Instacart)
	assert.Empty(t, links.Amazon)
}
