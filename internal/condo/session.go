package condo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/okfngroup/hr-selfservice/internal/config"
)

// The membership form posts these literals alongside the real credentials.
// cust_no is the corporate customer number captured from the booking form;
// the inner password field carries a fixed value that differs from the
// account password. Both are observed upstream behavior and must be sent
// verbatim.
const (
	membershipCustNo       = "0000624569"
	membershipFormPassword = "0808"
)

// Credential holds the resort account secrets for one run. It is fetched
// fresh per run and never cached.
type Credential struct {
	UserID             string
	Password           string
	MembershipPassword string
}

// Ticket is an ordered list of raw Set-Cookie values obtained from the login
// sequence. Values are preserved verbatim, attributes included.
type Ticket []string

// CookieHeader renders the ticket as a Cookie request header value.
func (t Ticket) CookieHeader() string {
	return strings.Join(t, "; ")
}

var errNoCookie = errors.New("no cookie returned")

// SessionAcquirer performs the two-step authentication handshake against the
// resort site. Redirects are never followed: a 302 is the success signal.
type SessionAcquirer struct {
	client        *http.Client
	loginURL      string
	membershipURL string
}

// NewSessionAcquirer creates an acquirer for the configured endpoints.
func NewSessionAcquirer(cfg config.CondoConfig) *SessionAcquirer {
	return &SessionAcquirer{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		loginURL:      cfg.LoginURL,
		membershipURL: cfg.MembershipURL,
	}
}

// Acquire runs both login legs and returns the combined session ticket:
// the primary login's cookies followed by the membership auth's cookies,
// in acquisition order. Either leg failing yields an *AuthError.
func (a *SessionAcquirer) Acquire(ctx context.Context, cred Credential) (Ticket, error) {
	loginForm := url.Values{
		"cyber_id": {cred.UserID},
		"password": {cred.Password},
	}
	first, err := a.postLogin(ctx, a.loginURL, loginForm, "")
	if err != nil {
		return nil, &AuthError{Stage: "primary login", Err: err}
	}

	membershipForm := url.Values{
		"cust_no":             {membershipCustNo},
		"cyber_id":            {cred.UserID},
		"password":            {membershipFormPassword},
		"membership_password": {cred.MembershipPassword},
	}
	second, err := a.postLogin(ctx, a.membershipURL, membershipForm, Ticket(first).CookieHeader())
	if err != nil {
		return nil, &AuthError{Stage: "secondary auth", Err: err}
	}

	ticket := make(Ticket, 0, len(first)+len(second))
	ticket = append(ticket, first...)
	ticket = append(ticket, second...)
	return ticket, nil
}

// postLogin issues one form-encoded login POST and enforces the 302 +
// Set-Cookie success contract, returning the raw cookie values.
func (a *SessionAcquirer) postLogin(ctx context.Context, endpoint string, form url.Values, cookie string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusFound {
		return nil, fmt.Errorf("unexpected status %d (want 302)", resp.StatusCode)
	}
	cookies := resp.Header.Values("Set-Cookie")
	if len(cookies) == 0 {
		return nil, errNoCookie
	}
	return cookies, nil
}
