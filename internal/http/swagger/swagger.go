package swagger

import (
	"fmt"
	"html"
	"net/http"

	"github.com/go-chi/chi/v5"
)

const (
	// DocsPath serves the Swagger UI.
	DocsPath = "/docs"

	// SpecPath serves the raw OpenAPI contract.
	SpecPath = "/docs/openapi.yml"
)

// Options describes the contract rendered by the UI.
type Options struct {
	Title string
	Spec  []byte
}

// Register mounts the Swagger UI and the contract on r.
func Register(r chi.Router, opts Options) {
	page := []byte(renderPage(opts.Title, SpecPath))

	r.Get(DocsPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(page)
	})

	r.Get(SpecPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(opts.Spec)
	})
}

func renderPage(title, specPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      tryItOutEnabled: true,
    });
  };
</script>
</body>
</html>
`, html.EscapeString(title), specPath)
}
