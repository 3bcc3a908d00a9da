// Package oauth serves the page an identity provider redirects to after
// sign-in. The page stores the issued token in the browser and sends the
// user on to the app.
package oauth

import "net/url"

// Query parameters set by the provider redirect.
const (
	ParamToken    = "token"
	ParamProvider = "provider"
	ParamError    = "error"
)

// App routes the callback page navigates to.
const (
	HomePath  = "/"
	LoginPath = "/login"
)

// localStorage keys the app reads the session from.
const (
	StorageToken    = "token"
	StorageProvider = "provider"
)

// Outcome is what the callback page does for a given redirect.
// Token is empty whenever nothing should be stored.
type Outcome struct {
	Token    string
	Provider string
	Error    string
	Redirect string
}

// Authenticated reports whether the outcome stores a token.
func (o Outcome) Authenticated() bool {
	return o.Token != ""
}

// Resolve maps the callback query to an Outcome. A provider error wins
// over a token, and a redirect with neither goes back to login.
func Resolve(q url.Values) Outcome {
	if code := q.Get(ParamError); code != "" {
		return Outcome{
			Error:    code,
			Redirect: LoginPath + "?" + url.Values{ParamError: {code}}.Encode(),
		}
	}

	if token := q.Get(ParamToken); token != "" {
		return Outcome{
			Token:    token,
			Provider: q.Get(ParamProvider),
			Redirect: HomePath,
		}
	}

	return Outcome{Redirect: LoginPath}
}
