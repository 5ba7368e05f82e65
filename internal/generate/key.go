package generate

import (
	"net/url"
	"strings"
	"unicode"
)

// Keys issued for the generation API start with this prefix.
const keyPrefix = "AIza"

// maxKeyLength bounds a pasted key; real keys are around 39 characters.
const maxKeyLength = 60

// NormalizeAPIKey recovers a usable API key from sloppy input: a full
// endpoint URL, a "key=..." query fragment, or a key with junk around
// it. Returns "" when nothing key-like can be extracted.
func NormalizeAPIKey(raw string) string {
	key := strings.TrimSpace(raw)
	if key == "" {
		return ""
	}

	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		if u, err := url.Parse(key); err == nil {
			if q := u.Query().Get("key"); q != "" {
				key = q
			}
		}
	}

	if _, after, ok := strings.Cut(key, "key="); ok {
		key = after
		for _, sep := range []string{"&", "#", "?"} {
			key, _, _ = strings.Cut(key, sep)
		}
		key = strings.TrimSpace(key)
	}

	if i := strings.Index(key, keyPrefix); i >= 0 {
		key = leadingKeyChars(key[i:])
	} else {
		key = leadingKeyChars(key)
	}

	if len(key) > maxKeyLength {
		key = key[:maxKeyLength]
	}
	return strings.TrimRight(key, "&?# ")
}

// leadingKeyChars returns the prefix of s made of characters valid in
// an API key, stopping at the first invalid one.
func leadingKeyChars(s string) string {
	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '=' {
			continue
		}
		return s[:i]
	}
	return s
}
