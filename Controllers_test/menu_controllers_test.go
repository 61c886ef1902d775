package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/services"
)

func TestGetMenu(t *testing.T) {
	api := setupAPI(t)
	api.setStock("Lemonade", 3)

	w, resp := api.do("GET", "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)

	menu := decode[services.Menu](t, resp.Data)
	assert.Equal(t, 10, menu.DeliveryFee)
	assert.NotEmpty(t, menu.Toppings)

	var lemonade *services.MenuItem
	for _, section := range menu.Sections {
		for i := range section.Items {
			if section.Items[i].Name == "Lemonade" {
				lemonade = &section.Items[i]
			}
		}
	}
	require.NotNil(t, lemonade, "Lemonade harus ada di menu")
	assert.Equal(t, 3, lemonade.Quantity)
	assert.True(t, lemonade.LowStock)
	assert.False(t, lemonade.OutOfStock)
}

func TestGetOperations(t *testing.T) {
	api := setupAPI(t)

	w, resp := api.do("GET", "/settings/operations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.OperationsSettings](t, resp.Data).Closed)
}

func TestPing(t *testing.T) {
	api := setupAPI(t)
	w, _ := api.do("GET", "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
}
