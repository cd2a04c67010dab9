package authz

// Checker decides whether a set of granted roles satisfies any of the
// required patterns. Hosts with their own authorization engine implement it.
type Checker interface {
	HasPermission(roles []string, patterns ...string) bool
}

// CheckerFunc is an adapter to use ordinary functions as Checker.
type CheckerFunc func(roles []string, patterns ...string) bool

// HasPermission implements Checker.
func (f CheckerFunc) HasPermission(roles []string, patterns ...string) bool {
	return f(roles, patterns...)
}

// SegmentChecker is the default Checker, backed by dotted wildcard matching.
var SegmentChecker Checker = CheckerFunc(func(roles []string, patterns ...string) bool {
	return HasPermission(patterns, roles)
})

// AliasChecker grants extra roles to holders of an alias role before matching.
//
//	checker := authz.NewAliasChecker(map[string][]string{
//	    "admins": {"survey.*.*", "reports.*"},
//	})
type AliasChecker struct {
	aliases map[string][]string
	next    Checker
}

// NewAliasChecker creates a Checker that expands aliases, then defers to
// SegmentChecker.
func NewAliasChecker(aliases map[string][]string) *AliasChecker {
	return &AliasChecker{aliases: aliases, next: SegmentChecker}
}

// HasPermission implements Checker. Alias grants are patterns themselves, so
// a grant of "survey.*.*" satisfies a required "survey.main.read".
func (c *AliasChecker) HasPermission(roles []string, patterns ...string) bool {
	if c.next.HasPermission(roles, patterns...) {
		return true
	}
	for _, r := range roles {
		for _, grant := range c.aliases[r] {
			for _, p := range patterns {
				if MatchSegments(grant, p) {
					return true
				}
			}
		}
	}
	return false
}
