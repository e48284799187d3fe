package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// GitHubProfile is the slice of GitHub's /user response this service needs
// to create an account: a stable identity (Login), a display name, and a
// verified email to key the credential store on.
type GitHubProfile struct {
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GitHubProvider wraps golang.org/x/oauth2 for the GitHub Authorization Code
// flow. GitHub sign-in is optional — the server only registers its routes
// when client credentials are configured. Accounts created this way live in
// the same users table as password accounts, keyed by email.
//
// FLOW:
//  1. We redirect the user to GitHub's authorization endpoint
//  2. The user approves; GitHub redirects back with a short-lived code
//  3. Exchange trades the code for an access token (server-to-server,
//     using the ClientSecret — the token never touches the browser)
//  4. We call the GitHub API for the user's profile and verified email
type GitHubProvider struct {
	config *oauth2.Config
	apiURL string
}

// NewGitHubProvider creates a GitHubProvider with the given OAuth App
// credentials. callbackURL must exactly match the "Authorization callback
// URL" registered with GitHub.
//
// Scopes: "read:user" for the public profile, "user:email" so we can fetch
// the primary email even when the user hides it from their public profile.
func NewGitHubProvider(clientID, clientSecret, callbackURL string) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiURL: "https://api.github.com",
	}
}

// AuthURL returns the URL to redirect the user to for authorization.
// state is a random single-use value verified on callback (CSRF protection).
func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for a GitHubProfile with a usable
// email. If the user hides their email from the public profile, GitHub
// returns it empty from /user, so we fall back to /user/emails and take the
// primary verified address. A profile without any verified email is an
// error — email is this service's account key.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client returns an *http.Client that adds the
	// "Authorization: Bearer <token>" header to every request.
	client := p.config.Client(ctx, token)

	var profile GitHubProfile
	if err := p.getJSON(ctx, client, "/user", &profile); err != nil {
		return nil, err
	}
	if profile.Login == "" {
		return nil, fmt.Errorf("auth: GitHub returned a profile with no login")
	}
	if profile.Name == "" {
		// Plenty of accounts never set a display name.
		profile.Name = profile.Login
	}

	if profile.Email == "" {
		email, err := p.primaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
		profile.Email = email
	}

	return &profile, nil
}

func (p *GitHubProvider) primaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := p.getJSON(ctx, client, "/user/emails", &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("auth: GitHub account has no primary verified email")
}

func (p *GitHubProvider) getJSON(ctx context.Context, client *http.Client, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("auth: building GitHub request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("auth: calling GitHub %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth: GitHub %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("auth: decoding GitHub %s response: %w", path, err)
	}
	return nil
}
