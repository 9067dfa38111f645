package catalog_test

import (
	"testing"

	"github.com/example/freshmart/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAcrossCategories(t *testing.T) {
	cat := catalog.Default()

	item, ok := cat.Find("🥛 Milk")
	require.True(t, ok)
	assert.Equal(t, "2.99", item.Price.StringFixed(2))
	assert.Equal(t, "liter", item.Unit)

	item, ok = cat.Find("🍎 Apples")
	require.True(t, ok)
	assert.Equal(t, "3.99", item.Price.StringFixed(2))
	assert.Equal(t, "kg", item.Unit)

	_, ok = cat.Find("Caviar")
	assert.False(t, ok)
}

func TestCategoryNamesPreserveOrder(t *testing.T) {
	cat := catalog.Default()

	assert.Equal(t, []string{
		"🥦 Fresh Produce",
		"🥩 Meat & Poultry",
		"🥛 Dairy & Eggs",
	}, cat.CategoryNames())
}

func TestCategoryItems(t *testing.T) {
	cat := catalog.Default()

	dairy, ok := cat.Category("🥛 Dairy & Eggs")
	require.True(t, ok)
	assert.Len(t, dairy.Items, 4)
	assert.Equal(t, "🥛 Milk", dairy.Items[0].Name)

	_, ok = cat.Category("🍬 Candy")
	assert.False(t, ok)
}
