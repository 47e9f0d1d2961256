package domain

import "regexp"

// KeyKind tells which column a balance operation should match against.
type KeyKind int

const (
	KeyNationalID KeyKind = iota
	KeyNickname
)

// LookupKey is an identifier resolved once at the boundary, either a
// national-id string or a nickname.
type LookupKey struct {
	Kind  KeyKind
	Value string
}

// dniShape checks the 8-digit-plus-letter shape only. The checksum letter is
// deliberately not verified here: an identifier with a wrong letter falls
// through to nickname lookup.
var dniShape = regexp.MustCompile(`^\d{8}[A-Z]$`)

// ResolveKey classifies an identifier as a national id or a nickname.
func ResolveKey(identifier string) LookupKey {
	if dniShape.MatchString(identifier) {
		return LookupKey{Kind: KeyNationalID, Value: identifier}
	}
	return LookupKey{Kind: KeyNickname, Value: identifier}
}
