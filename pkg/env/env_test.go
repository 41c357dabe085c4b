package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	t.Setenv("SPA_TEST_VALUE", "  console ")
	assert.Equal(t, "console", Get("SPA_TEST_VALUE", "json"))

	t.Setenv("SPA_TEST_VALUE", "   ")
	assert.Equal(t, "json", Get("SPA_TEST_VALUE", "json"))
}

func TestFirst(t *testing.T) {
	t.Setenv("SPA_A", "")
	t.Setenv("SPA_B", "b")
	assert.Equal(t, "b", First("none", "SPA_A", "SPA_B"))
	assert.Equal(t, "none", First("none", "SPA_A"))
}
