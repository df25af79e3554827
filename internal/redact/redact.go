// Package redact is the output-safety core of envsync. It guarantees that
// no secret-shaped value reaches an output channel (terminal, structured
// log, error message) in cleartext for the entire process lifetime.
//
// The package exposes five entry points: Text and Value transform data,
// IsSecretKey classifies names, Install intercepts the process output
// sinks, and ClearCache resets the memoization cache between runs. None of
// the transform functions ever return an error or panic: a caller that
// forgets to handle a failure is still safe, because there is no failure
// to forget.
package redact

// Sentinels returned when scrubbing cannot run to completion. Higher
// layers may log that scrubbing degraded, but must never fall back to the
// original unredacted text.
const (
	// FailedPlaceholder replaces output when matching failed unexpectedly.
	FailedPlaceholder = "[SCRUBBING_FAILED]"

	// TooLargePlaceholder replaces input above the matching length ceiling.
	// A backtracking-capable matcher cannot be time-boxed after the fact,
	// so a hard length ceiling is the only reliable bound.
	TooLargePlaceholder = "[SCRUBBING_FAILED:INPUT_TOO_LARGE]"

	// CircularMarker substitutes a value already on the active recursion
	// path of Value.
	CircularMarker = "[CIRCULAR_REFERENCE]"
)

// maxTextLen is the matching ceiling in bytes.
const maxTextLen = 50000

// Text redacts every secret-shaped substring of text, preserving any
// left-hand identifiers and surrounding structure. Empty input is returned
// unchanged. Oversized input and internal failures produce sentinel
// placeholders rather than the original text.
func Text(text string) (redacted string) {
	if text == "" {
		return text
	}

	defer func() {
		if r := recover(); r != nil {
			redacted = FailedPlaceholder
		}
	}()

	key := hashText(text)
	if cached, ok := textCache.get(key); ok {
		return cached
	}

	if len(text) > maxTextLen {
		return TooLargePlaceholder
	}

	redacted = applyPatterns(text, activeClassifier)
	textCache.put(key, redacted)
	return redacted
}
