package acquire

import "fmt"

// CookieSourceNone attaches no credentials to the request.
const CookieSourceNone = "none"

// Strategy pairs a credential source with a simulated client identity.
// Matrix order encodes priority: most likely to succeed first.
type Strategy struct {
	CookieSource  string
	ClientProfile string
}

func (s Strategy) String() string {
	return fmt.Sprintf("%s/%s", s.CookieSource, s.ClientProfile)
}

// UsesCookies reports whether the strategy attaches browser credentials.
func (s Strategy) UsesCookies() bool {
	return s.CookieSource != "" && s.CookieSource != CookieSourceNone
}

// Matrix builds the ordered strategy matrix from configured cookie
// sources and client profiles. Sources rank above profiles: every
// profile of a more authenticated source is tried before any profile of
// a less authenticated one.
func Matrix(cookieSources, clientProfiles []string) []Strategy {
	if len(cookieSources) == 0 {
		cookieSources = []string{CookieSourceNone}
	}
	if len(clientProfiles) == 0 {
		clientProfiles = []string{"android"}
	}
	matrix := make([]Strategy, 0, len(cookieSources)*len(clientProfiles))
	for _, source := range cookieSources {
		for _, profile := range clientProfiles {
			matrix = append(matrix, Strategy{CookieSource: source, ClientProfile: profile})
		}
	}
	return matrix
}
