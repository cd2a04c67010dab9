package authz

import "strings"

// Wildcard matches any single segment.
const Wildcard = "*"

const separator = "."

// MatchSegments reports whether role satisfies pattern.
func MatchSegments(pattern, role string) bool {
	pat := strings.Split(pattern, separator)
	seg := strings.Split(role, separator)
	if len(seg) < len(pat) {
		return false
	}
	for i, p := range pat {
		if p != Wildcard && p != seg[i] {
			return false
		}
	}
	return true
}

// MatchRole returns true if any of the roles satisfies pattern.
func MatchRole(pattern string, roles []string) bool {
	for _, r := range roles {
		if MatchSegments(pattern, r) {
			return true
		}
	}
	return false
}

// HasPermission returns true if any of the patterns matches any of the roles.
func HasPermission(patterns []string, roles []string) bool {
	for _, p := range patterns {
		if MatchRole(p, roles) {
			return true
		}
	}
	return false
}
