package cookiestore

import (
	"net/http"
	"time"
)

// Item is a single cookie. Everything except Name and Value is metadata that
// stores pass through untouched.
type Item struct {
	Name        string        `json:"name"`
	Value       string        `json:"value"`
	Domain      string        `json:"domain,omitempty"`
	Path        string        `json:"path,omitempty"`
	Expires     time.Time     `json:"expires,omitzero"`
	MaxAge      int           `json:"max_age,omitempty"`
	Secure      bool          `json:"secure,omitempty"`
	HTTPOnly    bool          `json:"http_only,omitempty"`
	SameSite    http.SameSite `json:"same_site,omitempty"`
	Partitioned bool          `json:"partitioned,omitempty"`
}

// ExpiresAt resolves MaxAge and Expires into an absolute deadline relative to now.
// MaxAge wins when both are set. The zero time means the item does not expire.
// A negative MaxAge means the item is already expired.
func (i Item) ExpiresAt(now time.Time) time.Time {
	switch {
	case i.MaxAge > 0:
		return now.Add(time.Duration(i.MaxAge) * time.Second)
	case i.MaxAge < 0:
		return now
	default:
		return i.Expires
	}
}

// Expired reports whether the item is past its deadline at now.
func (i Item) Expired(now time.Time) bool {
	if i.MaxAge < 0 {
		return true
	}
	if i.MaxAge > 0 || i.Expires.IsZero() {
		return false
	}
	return !now.Before(i.Expires)
}

// HTTPCookie converts the item into an *http.Cookie.
func (i Item) HTTPCookie() *http.Cookie {
	return &http.Cookie{
		Name:        i.Name,
		Value:       i.Value,
		Domain:      i.Domain,
		Path:        i.Path,
		Expires:     i.Expires,
		MaxAge:      i.MaxAge,
		Secure:      i.Secure,
		HttpOnly:    i.HTTPOnly,
		SameSite:    i.SameSite,
		Partitioned: i.Partitioned,
	}
}

// FromHTTPCookie converts c into an Item.
func FromHTTPCookie(c *http.Cookie) Item {
	return Item{
		Name:        c.Name,
		Value:       c.Value,
		Domain:      c.Domain,
		Path:        c.Path,
		Expires:     c.Expires,
		MaxAge:      c.MaxAge,
		Secure:      c.Secure,
		HTTPOnly:    c.HttpOnly,
		SameSite:    c.SameSite,
		Partitioned: c.Partitioned,
	}
}
