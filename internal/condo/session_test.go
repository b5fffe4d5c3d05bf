package condo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/okfngroup/hr-selfservice/internal/config"
)

func newAcquirer(loginURL, membershipURL string) *SessionAcquirer {
	return NewSessionAcquirer(config.CondoConfig{
		LoginURL:      loginURL,
		MembershipURL: membershipURL,
		Timeout:       5 * time.Second,
	})
}

func TestSessionAcquirer_Acquire(t *testing.T) {
	var membershipCookie string
	var membershipForm map[string]string

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "corp-user", r.PostForm.Get("cyber_id"))
		assert.Equal(t, "corp-pass", r.PostForm.Get("password"))
		w.Header().Add("Set-Cookie", "s1=abc; Path=/")
		w.Header().Add("Set-Cookie", "route=node7")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/membership", func(w http.ResponseWriter, r *http.Request) {
		membershipCookie = r.Header.Get("Cookie")
		assert.NoError(t, r.ParseForm())
		membershipForm = map[string]string{
			"cust_no":             r.PostForm.Get("cust_no"),
			"cyber_id":            r.PostForm.Get("cyber_id"),
			"password":            r.PostForm.Get("password"),
			"membership_password": r.PostForm.Get("membership_password"),
		}
		w.Header().Add("Set-Cookie", "s2=def")
		w.WriteHeader(http.StatusFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	acquirer := newAcquirer(server.URL+"/login", server.URL+"/membership")
	ticket, err := acquirer.Acquire(context.Background(), Credential{
		UserID:             "corp-user",
		Password:           "corp-pass",
		MembershipPassword: "member-pass",
	})

	assert.NoError(t, err)
	// Both cookie sets, verbatim and in acquisition order.
	assert.Equal(t, Ticket{"s1=abc; Path=/", "route=node7", "s2=def"}, ticket)
	// The second leg carries the first leg's cookies.
	assert.Equal(t, "s1=abc; Path=/; route=node7", membershipCookie)
	// The membership form sends the fixed upstream literals.
	assert.Equal(t, map[string]string{
		"cust_no":             "0000624569",
		"cyber_id":            "corp-user",
		"password":            "0808",
		"membership_password": "member-pass",
	}, membershipForm)
}

func TestSessionAcquirer_Acquire_NonRedirectStatus(t *testing.T) {
	// A 200 with a cookie must not produce a ticket; 302 is the success signal.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "s1=abc")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	acquirer := newAcquirer(server.URL, server.URL)
	ticket, err := acquirer.Acquire(context.Background(), Credential{UserID: "u", Password: "p"})

	assert.Nil(t, ticket)
	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
	assert.Equal(t, "primary login", authErr.Stage)
	assert.Contains(t, err.Error(), "unexpected status 200")
}

func TestSessionAcquirer_Acquire_MissingCookie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	acquirer := newAcquirer(server.URL, server.URL)
	ticket, err := acquirer.Acquire(context.Background(), Credential{UserID: "u", Password: "p"})

	assert.Nil(t, ticket)
	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
	assert.Equal(t, "primary login", authErr.Stage)
	assert.Contains(t, err.Error(), "no cookie returned")
}

func TestSessionAcquirer_Acquire_SecondaryFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "s1=abc")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/membership", func(w http.ResponseWriter, r *http.Request) {
		// Redirect without a cookie: the second leg must fail too.
		w.WriteHeader(http.StatusFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	acquirer := newAcquirer(server.URL+"/login", server.URL+"/membership")
	ticket, err := acquirer.Acquire(context.Background(), Credential{UserID: "u", Password: "p"})

	assert.Nil(t, ticket)
	var authErr *AuthError
	assert.True(t, errors.As(err, &authErr))
	assert.Equal(t, "secondary auth", authErr.Stage)
	assert.Contains(t, err.Error(), "no cookie returned")
}

func TestTicket_CookieHeader(t *testing.T) {
	assert.Equal(t, "a=1; b=2", Ticket{"a=1", "b=2"}.CookieHeader())
	assert.Equal(t, "a=1", Ticket{"a=1"}.CookieHeader())
	assert.Equal(t, "", Ticket(nil).CookieHeader())
}
