package auth

import (
	"context"
	"net/http"
	"time"
)

// CookieStore is an identity.Store scoped to one request: values are read
// from signed cookies and written back as Set-Cookie headers.
type CookieStore struct {
	signer *Signer
	w      http.ResponseWriter
	r      *http.Request
	secure bool
	set    map[string]string
}

func NewCookieStore(s *Signer, w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{signer: s, w: w, r: r, secure: secure, set: map[string]string{}}
}

// Get treats a missing, expired or tampered cookie as absent.
func (c *CookieStore) Get(_ context.Context, key string) (string, bool, error) {
	if v, ok := c.set[key]; ok {
		return v, true, nil
	}
	ck, err := c.r.Cookie(key)
	if err != nil || ck.Value == "" {
		return "", false, nil
	}
	v, err := c.signer.Parse(ck.Value)
	if err != nil {
		return "", false, nil
	}
	return v, true, nil
}

func (c *CookieStore) Put(_ context.Context, key, value string) error {
	tok, err := c.signer.Issue(value)
	if err != nil {
		return err
	}
	http.SetCookie(c.w, &http.Cookie{
		Name:     key,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(IdentityTTL),
	})
	c.set[key] = value
	return nil
}
