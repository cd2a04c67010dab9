package authz

import "testing"

func TestMatchSegments(t *testing.T) {
	tests := []struct {
		pattern string
		role    string
		want    bool
	}{
		{"survey.*.read", "survey.main.read", true},
		{"survey.*.read", "survey.main.write", false},
		{"survey.*.*", "survey.main.write", true},
		{"survey.*.*", "reports.main.write", false},
		{"admin", "admin", true},
		{"admin", "admins", false},
		{"*", "anything", true},
		// Extra trailing role segments are ignored.
		{"survey.main", "survey.main.read", true},
		// Fewer role segments than the pattern never match.
		{"survey.*.read", "survey.main", false},
		{"survey.*", "survey", false},
		{"", "", true},
		{"a..b", "a..b", true},
	}
	for _, tc := range tests {
		t.Run(tc.pattern+"/"+tc.role, func(t *testing.T) {
			if got := MatchSegments(tc.pattern, tc.role); got != tc.want {
				t.Errorf("MatchSegments(%q, %q) = %v, want %v", tc.pattern, tc.role, got, tc.want)
			}
		})
	}
}

func TestMatchRole(t *testing.T) {
	roles := []string{"reports.view", "survey.main.read"}
	if !MatchRole("survey.*.read", roles) {
		t.Error("expected a match on the second role")
	}
	if MatchRole("survey.*.write", roles) {
		t.Error("expected no match")
	}
	if MatchRole("survey.*.read", nil) {
		t.Error("expected no match without roles")
	}
}

func TestHasPermission(t *testing.T) {
	roles := []string{"survey.main.read"}
	tests := []struct {
		name     string
		patterns []string
		want     bool
	}{
		{"first matches", []string{"survey.*.read", "admin"}, true},
		{"second matches", []string{"admin", "survey.main.*"}, true},
		{"none match", []string{"admin", "survey.*.write"}, false},
		{"no patterns", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasPermission(tc.patterns, roles); got != tc.want {
				t.Errorf("HasPermission(%v) = %v, want %v", tc.patterns, got, tc.want)
			}
		})
	}
}

func TestSegmentChecker(t *testing.T) {
	if !SegmentChecker.HasPermission([]string{"a.b"}, "x", "a.*") {
		t.Error("expected any-of match")
	}
	if SegmentChecker.HasPermission([]string{"a.b"}, "x") {
		t.Error("expected no match")
	}
}

func TestCheckerFunc(t *testing.T) {
	var called bool
	c := CheckerFunc(func(roles []string, patterns ...string) bool {
		called = true
		return len(roles) > 0 && len(patterns) == 2
	})
	if !c.HasPermission([]string{"r"}, "p1", "p2") || !called {
		t.Error("expected CheckerFunc to delegate")
	}
}

func TestAliasChecker(t *testing.T) {
	c := NewAliasChecker(map[string][]string{
		"admins": {"survey.*.*", "reports.view"},
	})

	if !c.HasPermission([]string{"admins"}, "survey.main.read") {
		t.Error("expected alias grant to satisfy the pattern")
	}
	if !c.HasPermission([]string{"admins"}, "reports.view") {
		t.Error("expected literal alias grant to match")
	}
	if c.HasPermission([]string{"admins"}, "billing.view") {
		t.Error("expected no match outside the grants")
	}
	if !c.HasPermission([]string{"survey.main.read"}, "survey.*.read") {
		t.Error("expected plain roles to still match")
	}
	if c.HasPermission([]string{"editors"}, "survey.main.read") {
		t.Error("expected unknown alias to grant nothing")
	}
}
