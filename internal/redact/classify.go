package redact

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Names that are always treated as secret, regardless of the substring
// heuristic. Matched case-insensitively.
var builtinSecretNames = map[string]struct{}{
	"DATABASE_URL":          {},
	"DSN":                   {},
	"REDIS_URL":             {},
	"MONGODB_URI":           {},
	"CREDENTIALS":           {},
	"CONNECTION_STRING":     {},
	"AWS_SECRET_ACCESS_KEY": {},
	"GOOGLE_CREDENTIALS":    {},
	"NPM_AUTH":              {},
	"PGPASSWORD":            {},
}

// Names that are never redacted even when they would otherwise classify
// as secret. Matched case-insensitively.
var builtinWhitelist = map[string]struct{}{
	"DEBUG":           {},
	"VERBOSE":         {},
	"LOG_LEVEL":       {},
	"LOG_FORMAT":      {},
	"NODE_ENV":        {},
	"ENV":             {},
	"ENVIRONMENT":     {},
	"APP_ENV":         {},
	"PORT":            {},
	"HOST":            {},
	"HOSTNAME":        {},
	"PATH":            {},
	"HOME":            {},
	"TERM":            {},
	"TZ":              {},
	"LANG":            {},
	"CI":              {},
	"PUBLIC_KEY":      {},
	"PUBLISHABLE_KEY": {},
}

// Substrings that mark a name as secret-like.
var secretIndicators = []string{
	"password", "passwd", "pwd",
	"secret", "token", "key",
	"credential", "auth",
}

// classifier decides whether a field or variable name is secret-like,
// whitelisted, or neither. Built once at process start and read-only
// afterwards.
type classifier struct {
	secretGlobs    []string
	whitelistGlobs []string
}

func newClassifier(secretGlobs, whitelistGlobs []string) *classifier {
	return &classifier{
		secretGlobs:    upperAll(secretGlobs),
		whitelistGlobs: upperAll(whitelistGlobs),
	}
}

func upperAll(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = strings.ToUpper(strings.TrimSpace(p))
	}
	return out
}

func (c *classifier) isSecret(name string) bool {
	upper := strings.ToUpper(name)
	if _, ok := builtinSecretNames[upper]; ok {
		return true
	}
	if matchesAny(c.secretGlobs, upper) {
		return true
	}
	lower := strings.ToLower(name)
	for _, indicator := range secretIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func (c *classifier) isWhitelisted(name string) bool {
	upper := strings.ToUpper(name)
	if _, ok := builtinWhitelist[upper]; ok {
		return true
	}
	return matchesAny(c.whitelistGlobs, upper)
}

// shouldRedact is the combined policy: secret-and-not-whitelisted.
func (c *classifier) shouldRedact(name string) bool {
	return c.isSecret(name) && !c.isWhitelisted(name)
}

func matchesAny(globs []string, upperName string) bool {
	for _, g := range globs {
		// A malformed glob cannot match; coverage degrades to built-ins.
		if ok, err := doublestar.Match(g, upperName); err == nil && ok {
			return true
		}
	}
	return false
}

// activeClassifier is process-global state: written once during Install
// (or left at built-ins only), read for the rest of the process lifetime.
var activeClassifier = newClassifier(nil, nil)

func configureClassifier(secretGlobs, whitelistGlobs []string) {
	activeClassifier = newClassifier(secretGlobs, whitelistGlobs)
}

// IsSecretKey reports whether name classifies as secret-like: a built-in
// secret name, a user-configured scrub glob match, or a name containing a
// known secret-indicating substring. Case-insensitive.
func IsSecretKey(name string) bool {
	return activeClassifier.isSecret(name)
}

// IsWhitelisted reports whether name is explicitly exempt from redaction.
// The whitelist always overrides secret classification.
func IsWhitelisted(name string) bool {
	return activeClassifier.isWhitelisted(name)
}
