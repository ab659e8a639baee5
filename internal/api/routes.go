package api

import "strings"

// authRoutes are the paths that authenticate a user and therefore must never
// carry an Authorization header, even when a token is stored.
var authRoutes = []string{
	"/auth/login",
	"/auth/register",
	"/auth/signin",
	"/auth/signup",
	"/login",
	"/register",
	"/signin",
	"/signup",
}

// IsAuthRoute reports whether path targets one of the authentication routes.
// Matching is by substring, so query strings and prefixes do not matter.
func IsAuthRoute(path string) bool {
	for _, r := range authRoutes {
		if strings.Contains(path, r) {
			return true
		}
	}
	return false
}
