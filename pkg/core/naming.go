package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// MaxTargetNameLength is the RFC 1123 subdomain limit for resource names.
const MaxTargetNameLength = 253

// TargetName derives the dashboard resource name for a document.
// candidateCount is the number of candidate dashboard keys in the source,
// including keys that currently fail validation: a single-candidate ConfigMap
// keeps the source name verbatim, a multi-candidate one appends the sanitized
// key stem so each document gets a unique, deterministic name that does not
// shift when a sibling is transiently broken.
func TargetName(sourceName, key string, candidateCount int) string {
	base := sanitizeName(sourceName)

	if candidateCount <= 1 {
		return truncateName(base)
	}

	stem := sanitizeName(keyStem(key))
	if stem == "" {
		stem = shortHash(key)
	}

	return truncateName(base + "-" + stem)
}

// keyStem strips the dashboard suffix from a payload key.
func keyStem(key string) string {
	return strings.TrimSuffix(key, DashboardKeySuffix)
}

// sanitizeName lowercases the input and replaces every character outside
// [a-z0-9-] with a hyphen. Runs of hyphens collapse to one and leading or
// trailing hyphens are trimmed, so invalid input is repaired rather than
// dropped silently.
func sanitizeName(name string) string {
	lowered := strings.ToLower(name)

	builder := strings.Builder{}
	builder.Grow(len(lowered))

	lastHyphen := false

	for _, char := range lowered {
		valid := (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')
		if valid {
			builder.WriteRune(char)
			lastHyphen = false
			continue
		}

		if !lastHyphen {
			builder.WriteRune('-')
			lastHyphen = true
		}
	}

	return strings.Trim(builder.String(), "-")
}

func truncateName(name string) string {
	if len(name) <= MaxTargetNameLength {
		return name
	}

	return strings.TrimRight(name[:MaxTargetNameLength], "-")
}

// shortHash is the fallback stem when sanitization empties a key.
func shortHash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:8]
}
