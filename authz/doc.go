// Package authz matches dotted role strings against wildcard patterns.
//
// Roles and patterns are split on ".". Each pattern segment is either a
// literal or "*", which matches exactly one segment. There is no
// multi-segment wildcard.
//
//	authz.MatchRole("survey.*.read", []string{"survey.main.read"})  // true
//	authz.MatchRole("survey.*.read", []string{"survey.main.write"}) // false
//	authz.HasPermission([]string{"admin", "survey.*.*"}, roles)
//
// Comparison covers the pattern's segments only, so a role with extra
// trailing segments matches on its prefix ("a.b" matches "a.b.c"). A role
// with fewer segments than the pattern never matches.
package authz
