// Package cookie reads and writes the cookies that carry a client's locale preference.
//
// Manager wraps net/http cookies with shared defaults (path, max age, SameSite) and
// optional HMAC-SHA256 signing, so a locale stored on the client can't be swapped for a
// value the server never issued:
//
//	man, err := cookie.New(nil, cookie.WithMaxAge(365*24*60*60))
//	...
//	_ = man.Set(w, "locale", "zh-CN")
//	tag, err := man.Get(r, "locale")
//
// Signing needs at least one secret of 32 or more bytes. The first secret signs; all of
// them verify, which allows rotating keys without invalidating issued cookies.
//
//	man, err := cookie.New([]string{current, previous})
//	_ = man.SetSigned(w, "locale", "fr")
//
// Config maps the manager settings to environment variables for pkg/config.
package cookie
