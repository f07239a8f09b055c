package swagger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	apicontract "github.com/tuanvumaihuynh/product-catalog/api-contract"
	"github.com/tuanvumaihuynh/product-catalog/internal/http/swagger"
)

func TestRegister(t *testing.T) {
	r := chi.NewRouter()
	swagger.Register(r, swagger.Options{
		Title: "Product Catalog <API>",
		Spec:  apicontract.GetSpecBytes(),
	})

	t.Run("Should serve the ui with the title", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, swagger.DocsPath, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "<title>Product Catalog &lt;API&gt;</title>")
		assert.Contains(t, rec.Body.String(), swagger.SpecPath)
	})

	t.Run("Should serve the contract", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, swagger.SpecPath, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/yaml")
		assert.Equal(t, apicontract.GetSpecBytes(), rec.Body.Bytes())
	})
}
