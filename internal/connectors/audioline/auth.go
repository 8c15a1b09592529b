package audioline

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// loggedInMarker is the account navigation block WooCommerce only renders
// for an authenticated session.
const loggedInMarker = ".woocommerce-MyAccount-navigation"

// authCookiePrefix is the WordPress session cookie set on successful login.
const authCookiePrefix = "wordpress_logged_in_"

// Authenticator performs the one-time WooCommerce form login. Audioline
// hides dealer pricing behind the account wall, so every fetch afterwards
// rides on the cookie jar of the shared HTTP client.
type Authenticator struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   *slog.Logger
}

func NewAuthenticator(client *http.Client, baseURL, username, password string) *Authenticator {
	return &Authenticator{
		client:   client,
		baseURL:  baseURL,
		username: username,
		password: password,
		logger:   slog.Default().With("component", "audioline"),
	}
}

// Login fetches the login form, lifts the anti-CSRF nonce out of it, submits
// the credentials and verifies the session. It reports success as a bool and
// never fails hard on bad credentials; failures are logged and return false.
func (a *Authenticator) Login(ctx context.Context) bool {
	loginURL := a.baseURL + "/my-account/"

	nonce, referer, ok := a.fetchLoginForm(ctx, loginURL)
	if !ok {
		return false
	}

	form := url.Values{}
	form.Set("username", a.username)
	form.Set("password", a.password)
	form.Set("woocommerce-login-nonce", nonce)
	form.Set("_wp_http_referer", referer)
	form.Set("login", "Log in")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		a.logger.Error("failed to build login request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("login request failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		a.logger.Error("failed to parse login response", "error", err)
		return false
	}

	if doc.Find(loggedInMarker).Length() > 0 {
		a.logger.Info("logged in", "marker", "account navigation")
		return true
	}

	if a.hasAuthCookie(loginURL) {
		a.logger.Info("logged in", "marker", "session cookie")
		return true
	}

	a.logger.Warn("login rejected, check credentials")
	return false
}

func (a *Authenticator) fetchLoginForm(ctx context.Context, loginURL string) (nonce, referer string, ok bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		a.logger.Error("failed to build login form request", "error", err)
		return "", "", false
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("failed to fetch login form", "error", err)
		return "", "", false
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		a.logger.Error("failed to parse login form", "error", err)
		return "", "", false
	}

	nonce, exists := doc.Find(`input[name="woocommerce-login-nonce"]`).Attr("value")
	if !exists || nonce == "" {
		a.logger.Error("login form has no nonce field")
		return "", "", false
	}

	referer, _ = doc.Find(`input[name="_wp_http_referer"]`).Attr("value")

	return nonce, referer, true
}

func (a *Authenticator) hasAuthCookie(loginURL string) bool {
	if a.client.Jar == nil {
		return false
	}

	u, err := url.Parse(loginURL)
	if err != nil {
		return false
	}

	for _, cookie := range a.client.Jar.Cookies(u) {
		if strings.HasPrefix(cookie.Name, authCookiePrefix) {
			return true
		}
	}

	return false
}
