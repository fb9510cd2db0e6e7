package dashboard

import "net/url"

// BackTarget decides where the detail view's back button leads. A referer on
// the same host means the user navigated here from inside the dashboard, so
// the button returns there; anything else is a deep link and goes home.
func BackTarget(referer, host string) string {
	if referer == "" || host == "" {
		return "/"
	}
	u, err := url.Parse(referer)
	if err != nil || u.Host != host {
		return "/"
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "/"
	}
	target := u.RequestURI()
	if target == "" {
		return "/"
	}
	return target
}
