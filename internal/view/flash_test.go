package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fteye/pagemill/internal/view"
)

func newFlashContext(t *testing.T) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// The session middleware normally puts the store on the context.
	store := sessions.NewCookieStore([]byte("test-secret"))
	c.Set("_session_store", store)

	return c
}

func TestFlashMessages(t *testing.T) {
	t.Run("set and retrieve a success message", func(t *testing.T) {
		c := newFlashContext(t)

		view.SetFlashSuccess(c, "It worked!")
		data := view.GetFlashData(c)

		require.Len(t, data.Success, 1)
		assert.Equal(t, "It worked!", data.Success[0])
		assert.Empty(t, data.Error)
	})

	t.Run("set and retrieve an error message", func(t *testing.T) {
		c := newFlashContext(t)

		view.SetFlashError(c, "It broke.")
		data := view.GetFlashData(c)

		require.Len(t, data.Error, 1)
		assert.Equal(t, "It broke.", data.Error[0])
	})

	t.Run("retrieval clears the messages", func(t *testing.T) {
		c := newFlashContext(t)

		view.SetFlashSuccess(c, "once")
		_ = view.GetFlashData(c)
		data := view.GetFlashData(c)

		assert.Empty(t, data.Success)
		assert.Empty(t, data.Error)
	})

	t.Run("collects multiple messages in order", func(t *testing.T) {
		c := newFlashContext(t)

		view.SetFlashError(c, "first")
		view.SetFlashError(c, "second")
		data := view.GetFlashData(c)

		require.Len(t, data.Error, 2)
		assert.Equal(t, []string{"first", "second"}, data.Error)
	})
}
