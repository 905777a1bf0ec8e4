package permissions

import "strings"

// MatchKind selects how a rule pattern is compared against a request path.
type MatchKind int

const (
	// MatchExact requires the path to equal the pattern.
	MatchExact MatchKind = iota
	// MatchPrefix requires the path to start with the pattern.
	MatchPrefix
)

// PathRule is one evaluated route-access rule derived from a permission code.
type PathRule struct {
	Match   MatchKind
	Pattern string
}

// RuleForCode maps a permission code to its rule. The root code "/" demands
// an exact match; as a prefix it would match every path in the system.
func RuleForCode(code string) PathRule {
	code = strings.TrimSpace(code)
	if code == "/" {
		return PathRule{Match: MatchExact, Pattern: "/"}
	}
	return PathRule{Match: MatchPrefix, Pattern: code}
}

// RulesFromCodes builds the rule table for a caller's permission codes.
func RulesFromCodes(codes []string) []PathRule {
	rules := make([]PathRule, 0, len(codes))
	for _, code := range codes {
		if strings.TrimSpace(code) == "" {
			continue
		}
		rules = append(rules, RuleForCode(code))
	}
	return rules
}

// Allows reports whether the rule grants access to the path.
func (r PathRule) Allows(path string) bool {
	switch r.Match {
	case MatchExact:
		return path == r.Pattern
	case MatchPrefix:
		return strings.HasPrefix(path, r.Pattern)
	default:
		return false
	}
}

// Allowed evaluates the rule table against a request path.
func Allowed(rules []PathRule, path string) bool {
	for _, rule := range rules {
		if rule.Allows(path) {
			return true
		}
	}
	return false
}
