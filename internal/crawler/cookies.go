package crawler

import (
	"encoding/json"
	"net/http"
	"os"

	watcherrors "github.com/roccohia/labubu-watcher/pkg/errors"
)

// Cookie is one entry of a browser cookie export
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
}

// LoadCookies reads a cookie export. A missing file or empty path is a
// logged-out fetch, not an error.
func LoadCookies(path string) ([]Cookie, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, watcherrors.NewCookie(path, err)
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, watcherrors.NewCookie(path, err)
	}

	valid := cookies[:0]
	for _, c := range cookies {
		if c.Name == "" {
			continue
		}
		if c.Path == "" {
			c.Path = "/"
		}
		valid = append(valid, c)
	}
	return valid, nil
}

// HTTPCookies converts cookies for a plain HTTP request
func HTTPCookies(cookies []Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HttpOnly: c.HTTPOnly,
			Secure:   c.Secure,
		})
	}
	return out
}
