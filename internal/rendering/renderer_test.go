package rendering_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"

	"github.com/fteye/pagemill/internal/rendering"
)

func TestUniversalRenderer(t *testing.T) {
	r := rendering.NewUniversalRenderer()

	t.Run("renders a gomponents node", func(t *testing.T) {
		out, err := r.RenderComponent(context.Background(), g.P(cmp.Text("hi")))
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", string(out))
	})

	t.Run("renders a templ component", func(t *testing.T) {
		out, err := r.RenderComponent(context.Background(), templ.Raw("<span>hi</span>"))
		require.NoError(t, err)
		assert.Equal(t, "<span>hi</span>", string(out))
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		_, err := r.RenderComponent(context.Background(), 42)
		assert.Error(t, err)
	})

	t.Run("serves as the echo renderer", func(t *testing.T) {
		e := echo.New()
		e.Renderer = r
		e.GET("/", func(c echo.Context) error {
			return c.Render(http.StatusOK, "", g.P(cmp.Text("page")))
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "<p>page</p>", rec.Body.String())
	})
}
