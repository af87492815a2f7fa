// Package identity derives stable, content-addressed identifiers for graph
// entities. Identical normalized content always yields the same identifier
// across runs and machines.
package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	slugMaxRunes   = 40
	fingerprintLen = 8
)

var slugUnsafe = regexp.MustCompile(`[^0-9a-zA-Zа-яА-Я_]+`)

// Normalize canonicalises free text before hashing: Unicode NFC, trimmed,
// lower-cased, "ё" folded to "е" and Unicode whitespace runs collapsed.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "ё", "е")
	// Fields splits on unicode.IsSpace, so NBSP and other Unicode spaces
	// collapse like ASCII ones.
	return strings.Join(strings.Fields(s), " ")
}

// Prefix returns the identifier prefix for a node type.
func Prefix(nodeType string) string {
	switch nodeType {
	case "root":
		return "diag"
	case "method":
		return "method"
	case "criteria":
		return "crit"
	case "logic":
		return "grp"
	default:
		return "ent"
	}
}

// Slug turns a label into an identifier-safe fragment of at most 40 runes.
func Slug(label string) string {
	s := slugUnsafe.ReplaceAllString(Normalize(label), "_")
	if utf8.RuneCountInString(s) > slugMaxRunes {
		s = string([]rune(s)[:slugMaxRunes])
	}
	s = strings.Trim(s, "_")
	if s == "" {
		return "x"
	}
	return s
}

// Fingerprint returns the first eight hex digits of the SHA-1 of the
// normalized fields joined with "|".
func Fingerprint(fields ...string) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = Normalize(f)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// Derive returns the identifier of an entity as prefix_slug_fingerprint.
func Derive(docID, nodeType, label, value, note string) string {
	return Prefix(nodeType) + "_" + Slug(label) + "_" + Fingerprint(docID, nodeType, label, value, note)
}
