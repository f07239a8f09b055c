package apicontract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apicontract "github.com/tuanvumaihuynh/product-catalog/api-contract"
)

func TestLoad(t *testing.T) {
	doc, err := apicontract.Load(context.Background())
	require.NoError(t, err)

	for _, path := range []string{
		"/healthz",
		"/api/products",
		"/api/products/search",
		"/api/products/low-stock",
		"/api/products/{id}",
	} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}

	item := doc.Paths.Find("/api/products/{id}")
	require.NotNil(t, item)
	assert.NotNil(t, item.Get)
	assert.NotNil(t, item.Put)
	assert.NotNil(t, item.Delete)
}
