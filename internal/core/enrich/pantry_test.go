package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	missing := Reconcile([]string{"flour", "sugar", "eggs"}, []string{"sugar"})
	assert.Equal(t, []string{"flour", "eggs"}, missing)
}

func TestReconcileCaseInsensitive(t *testing.T) {
	missing := Reconcile([]string{"Flour", "Eggs"}, []string{"flour"})
	assert.Equal(t, []string{"Eggs"}, missing)
}

func TestReconcileEmptyPantry(t *testing.T) {
	missing := Reconcile([]string{"flour", "sugar"}, nil)
	assert.Equal(t, []string{"flour", "sugar"}, missing)
}

func TestReconcileFullyStocked(t *testing.T) {
	missing := Reconcile([]string{"flour", "sugar"}, []string{"sugar", "flour", "butter"})
	assert.Empty(t, missing)
}

func TestReconcileEmptyIngredients(t *testing.T) {
	missing := Reconcile(nil, []string{"flour"})
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestReconcilePreservesIngredientOrder(t *testing.T) {
	missing := Reconcile([]string{"zucchini", "apple", "mango"}, []string{"apple"})
	assert.Equal(t, []string{"zucchini", "mango"}, missing)
}
