package i18n_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/localemux/pkg/cookie"
	"github.com/dmitrymomot/localemux/pkg/i18n"
	"github.com/dmitrymomot/localemux/pkg/redis"
)

const testSecret = "this-is-a-very-long-secret-key-32-chars-long"

func newCookies(t *testing.T, secrets ...string) *cookie.Manager {
	t.Helper()
	m, err := cookie.New(secrets, cookie.WithMaxAge(365*24*60*60))
	require.NoError(t, err)
	return m
}

func TestFixedResolver(t *testing.T) {
	t.Parallel()

	r := i18n.NewFixedResolver(i18n.NewRoute("/locale", 3), language.MustParse("en-US"))
	assert.Equal(t, "/locale", r.Pattern())
	assert.Equal(t, 3, r.Priority())

	req := httptest.NewRequest(http.MethodGet, "/locale", nil)
	req.Header.Set("Accept-Language", "zh")
	assert.Equal(t, "en-US", r.Resolve(req).String())

	rec := httptest.NewRecorder()
	require.NoError(t, r.Persist(rec, req, language.French))
	assert.Empty(t, rec.Result().Cookies())
}

func TestHeaderResolver(t *testing.T) {
	t.Parallel()

	t.Run("default header", func(t *testing.T) {
		t.Parallel()
		r := i18n.NewHeaderResolver(i18n.NewRoute("/api/**", 0), "")

		req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
		assert.Equal(t, language.Und, r.Resolve(req))

		req.Header.Set("Language", "de-AT")
		assert.Equal(t, "de-AT", r.Resolve(req).String())
	})

	t.Run("narrowed to supported", func(t *testing.T) {
		t.Parallel()
		r := i18n.NewHeaderResolver(i18n.NewRoute("/api/**", 0), "X-Locale", language.English, language.German)

		req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
		req.Header.Set("X-Locale", "de-AT")
		assert.Equal(t, language.German, r.Resolve(req))

		req.Header.Set("X-Locale", "ja")
		assert.Equal(t, language.Und, r.Resolve(req))

		req.Header.Set("X-Locale", "???")
		assert.Equal(t, language.Und, r.Resolve(req))
	})
}

func TestCookieResolver(t *testing.T) {
	t.Parallel()

	t.Run("requires cookie manager", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewCookieResolver(nil)
		require.ErrorIs(t, err, i18n.ErrCookieManagerRequired)
	})

	t.Run("signed requires secret", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewCookieResolver(newCookies(t), i18n.WithSignedCookie())
		require.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("serves everything by default", func(t *testing.T) {
		t.Parallel()
		r, err := i18n.NewCookieResolver(newCookies(t))
		require.NoError(t, err)
		assert.Equal(t, "/**", r.Pattern())
	})

	t.Run("resolution order", func(t *testing.T) {
		t.Parallel()
		r, err := i18n.NewCookieResolver(newCookies(t), i18n.WithDefaultLocale(language.German))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Equal(t, language.German, r.Resolve(req), "default")

		req.Header.Set("Accept-Language", "fr;q=0.9, zh-CN")
		assert.Equal(t, "zh-CN", r.Resolve(req).String(), "accept-language")

		req.AddCookie(&http.Cookie{Name: "locale", Value: "en-US"})
		assert.Equal(t, "en-US", r.Resolve(req).String(), "cookie")
	})

	t.Run("invalid cookie falls through", func(t *testing.T) {
		t.Parallel()
		r, err := i18n.NewCookieResolver(newCookies(t))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "locale", Value: "!!"})
		req.Header.Set("Accept-Language", "fr")
		assert.Equal(t, language.French, r.Resolve(req))
	})

	t.Run("persist writes and deletes cookie", func(t *testing.T) {
		t.Parallel()
		r, err := i18n.NewCookieResolver(newCookies(t), i18n.WithCookieName("lang"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, r.Persist(rec, req, language.MustParse("zh-CN")))

		c := rec.Result().Cookies()[0]
		assert.Equal(t, "lang", c.Name)
		assert.Equal(t, "zh-CN", c.Value)
		assert.Equal(t, 365*24*60*60, c.MaxAge)
		assert.Equal(t, "/", c.Path)

		rec = httptest.NewRecorder()
		require.NoError(t, r.Persist(rec, req, language.Und))
		assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
	})

	t.Run("signed cookie round trip", func(t *testing.T) {
		t.Parallel()
		r, err := i18n.NewCookieResolver(newCookies(t, testSecret), i18n.WithSignedCookie())
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		require.NoError(t, r.Persist(rec, httptest.NewRequest(http.MethodGet, "/", nil), language.French))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(rec.Result().Cookies()[0])
		assert.Equal(t, language.French, r.Resolve(req))

		forged := httptest.NewRequest(http.MethodGet, "/", nil)
		forged.AddCookie(&http.Cookie{Name: "locale", Value: "de"})
		assert.Equal(t, language.English, r.Resolve(forged), "unsigned value is ignored")
	})

	t.Run("supported narrowing", func(t *testing.T) {
		t.Parallel()
		r, err := i18n.NewCookieResolver(newCookies(t),
			i18n.WithSupportedLocales(language.English, language.SimplifiedChinese),
		)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "locale", Value: "ja"})
		req.Header.Set("Accept-Language", "en-GB")
		assert.Equal(t, language.English, r.Resolve(req))
	})
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, error) { return "", errors.New("down") }
func (failingStore) Set(context.Context, string, string) error   { return errors.New("down") }
func (failingStore) Delete(context.Context, string) error        { return errors.New("down") }

func TestPreferenceResolver(t *testing.T) {
	t.Parallel()

	t.Run("requires store", func(t *testing.T) {
		t.Parallel()
		_, err := i18n.NewPreferenceResolver(i18n.NewRoute("/u/**", 0), nil)
		require.ErrorIs(t, err, i18n.ErrPreferenceStoreRequired)
	})

	t.Run("redis backed", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		r, err := i18n.NewPreferenceResolver(i18n.NewRoute("/u/**", 0), redis.NewPreferenceStore(client))
		require.NoError(t, err)

		anon := httptest.NewRequest(http.MethodGet, "/u/me", nil)
		assert.Equal(t, language.Und, r.Resolve(anon))
		require.NoError(t, r.Persist(httptest.NewRecorder(), anon, language.French))
		assert.Empty(t, mr.Keys())

		req := httptest.NewRequest(http.MethodGet, "/u/me", nil)
		req.Header.Set(i18n.DefaultUserHeader, "42")
		assert.Equal(t, language.Und, r.Resolve(req))

		require.NoError(t, r.Persist(httptest.NewRecorder(), req, language.MustParse("zh-CN")))
		stored, err := mr.Get("locale:42")
		require.NoError(t, err)
		assert.Equal(t, "zh-CN", stored)
		assert.Equal(t, "zh-CN", r.Resolve(req).String())

		require.NoError(t, r.Persist(httptest.NewRecorder(), req, language.Und))
		assert.Equal(t, language.Und, r.Resolve(req))
	})

	t.Run("store failure resolves und", func(t *testing.T) {
		t.Parallel()
		r, err := i18n.NewPreferenceResolver(i18n.NewRoute("/u/**", 0), failingStore{}, i18n.WithUserHeader("X-Account"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/u/me", nil)
		req.Header.Set("X-Account", "7")
		assert.Equal(t, language.Und, r.Resolve(req))
		require.Error(t, r.Persist(httptest.NewRecorder(), req, language.French))
	})
}
