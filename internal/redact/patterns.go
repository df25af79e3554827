package redact

import (
	"regexp"
)

// Placeholders substituted for sensitive content.
const (
	Placeholder = "[REDACTED]"

	jwtPlaceholder        = "[REDACTED:JWT]"
	githubPlaceholder     = "[REDACTED:GITHUB_TOKEN]"
	awsKeyPlaceholder     = "[REDACTED:AWS_KEY]"
	apiKeyPlaceholder     = "[REDACTED:API_KEY]"
	slackPlaceholder      = "[REDACTED:SLACK_TOKEN]"
	privateKeyPlaceholder = "[REDACTED:PRIVATE_KEY]"
)

// Assignment lines: NAME=value with optional quoting. The identifier is
// classified before the value is touched, so DEBUG=true survives while
// API_KEY=sk_live_123 does not.
var assignmentPattern = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)([ \t]*=[ \t]*)("[^"\n]*"|'[^'\n]*'|[^\s#]+)`)

// Credential-bearing URLs: only the password segment is replaced, the
// scheme, user and host are kept for debuggability.
var credentialURLPattern = regexp.MustCompile(`(?i)\b([a-z][a-z0-9+.\-]*)://([^:@/\s]+):([^@\s]+)@`)

// Compact signed tokens, replaced wholesale with a typed placeholder.
var tokenPatterns = []struct {
	re          *regexp.Regexp
	placeholder string
}{
	{regexp.MustCompile(`\beyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+`), jwtPlaceholder},
	{regexp.MustCompile(`\b(?:gh[pousr]_[A-Za-z0-9]{36,}|github_pat_[A-Za-z0-9_]{36,})`), githubPlaceholder},
	{regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`), awsKeyPlaceholder},
	{regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}\b`), apiKeyPlaceholder},
	{regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}`), slackPlaceholder},
}

// Bearer credentials keep the scheme word so callers can still see an
// Authorization header was present.
var bearerPattern = regexp.MustCompile(`(?i)\b(bearer)[ \t]+[A-Za-z0-9_\-.=+/]{16,}`)

// Delimited multi-line blocks, matched across line boundaries.
var privateKeyBlockPattern = regexp.MustCompile(`(?s)-----BEGIN [A-Z0-9 ]*PRIVATE KEY-----.*?-----END [A-Z0-9 ]*PRIVATE KEY-----`)

// applyPatterns runs every secret pattern in order over the input.
func applyPatterns(text string, c *classifier) string {
	text = redactAssignments(text, c)
	text = credentialURLPattern.ReplaceAllString(text, "${1}://${2}:"+Placeholder+"@")
	for _, tp := range tokenPatterns {
		text = tp.re.ReplaceAllString(text, tp.placeholder)
	}
	text = bearerPattern.ReplaceAllString(text, "${1} "+Placeholder)
	text = privateKeyBlockPattern.ReplaceAllString(text, privateKeyPlaceholder)
	return text
}

func redactAssignments(text string, c *classifier) string {
	return assignmentPattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := assignmentPattern.FindStringSubmatch(match)
		if parts == nil {
			return match
		}
		name, sep, value := parts[1], parts[2], parts[3]

		if !c.shouldRedact(name) {
			return match
		}

		// An empty value has nothing to leak.
		switch {
		case value == "":
			return match
		case value == `""` || value == "''":
			return match
		}

		// Preserve the original quote style around the placeholder.
		if len(value) >= 2 {
			if q := value[0]; (q == '"' || q == '\'') && value[len(value)-1] == q {
				return name + sep + string(q) + Placeholder + string(q)
			}
		}
		return name + sep + Placeholder
	})
}

// containsSecret reports whether text matches any secret pattern without
// rewriting it. Used by callers that only need a yes/no answer.
func containsSecret(text string, c *classifier) bool {
	for _, m := range assignmentPattern.FindAllStringSubmatch(text, -1) {
		if c.shouldRedact(m[1]) && m[3] != "" && m[3] != `""` && m[3] != "''" {
			return true
		}
	}
	if credentialURLPattern.MatchString(text) {
		return true
	}
	for _, tp := range tokenPatterns {
		if tp.re.MatchString(text) {
			return true
		}
	}
	return bearerPattern.MatchString(text) ||
		privateKeyBlockPattern.MatchString(text)
}

// ContainsSecret reports whether text would be altered by Text. Useful for
// validation paths that must reject rather than rewrite.
func ContainsSecret(text string) bool {
	if text == "" {
		return false
	}
	return containsSecret(text, activeClassifier)
}
