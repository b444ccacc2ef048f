package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewear-hq/rewear/internal/model"
)

// decodeEnvelope asserts the response carries the standard three-field
// envelope and returns it.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	data, ok := body["data"]
	assert.True(t, ok, "envelope missing data field: %v", body)
	assert.Nil(t, data)
	return body
}

func TestJWTAuthRejectsWithEnvelope(t *testing.T) {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, JWTAuth("secret"))

	for _, header := range []string{"", "Basic abc", "Bearer not-a-token"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		decodeEnvelope(t, rec)
	}
}

func TestRequireRoleForbidsWithEnvelope(t *testing.T) {
	e := echo.New()
	setRole := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("role", model.RoleUser)
			return next(c)
		}
	}
	e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		setRole, RequireRole(model.RoleAdmin))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	decodeEnvelope(t, rec)
}
