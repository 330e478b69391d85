package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.Use(Middleware(DefaultConfig()))
	e.GET("/form", func(c echo.Context) error { return c.String(http.StatusOK, Token(c)) })
	e.POST("/submit", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	return e
}

func issueToken(t *testing.T, e *echo.Echo) (string, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/form", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "XSRF-TOKEN" {
			require.Equal(t, ck.Value, rec.Body.String())
			return ck.Value, ck
		}
	}
	t.Fatal("no csrf cookie issued")
	return "", nil
}

func post(e *echo.Echo, cookie *http.Cookie, form url.Values, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCSRF_AcceptsMatchingFormToken(t *testing.T) {
	e := newEcho()
	token, cookie := issueToken(t, e)

	rec := post(e, cookie, url.Values{"csrf_token": {token}}, "http://example.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCSRF_AcceptsHeaderToken(t *testing.T) {
	e := newEcho()
	token, cookie := issueToken(t, e)

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCSRF_Rejects(t *testing.T) {
	e := newEcho()
	token, cookie := issueToken(t, e)

	tests := []struct {
		name   string
		cookie *http.Cookie
		form   url.Values
		origin string
	}{
		{name: "missing token", cookie: cookie, form: url.Values{}, origin: "http://example.com"},
		{name: "wrong token", cookie: cookie, form: url.Values{"csrf_token": {"x" + token}}, origin: "http://example.com"},
		{name: "no cookie", cookie: nil, form: url.Values{"csrf_token": {token}}, origin: "http://example.com"},
		{name: "foreign origin", cookie: cookie, form: url.Values{"csrf_token": {token}}, origin: "http://evil.test"},
		{name: "no origin", cookie: cookie, form: url.Values{"csrf_token": {token}}, origin: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(e, tt.cookie, tt.form, tt.origin)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
}

func TestCSRF_SkipPaths(t *testing.T) {
	e := echo.New()
	e.Use(Middleware(Config{SkipPaths: []string{"/submit"}}))
	e.POST("/submit", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := post(e, nil, url.Values{}, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
