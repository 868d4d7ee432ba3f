// Package codec obfuscates message bodies before they hit storage.
// This is reversible base64, not encryption: it only keeps bodies from
// being readable at a glance in the backend.
package codec

import "encoding/base64"

// Encode returns the base64 form of the UTF-8 bytes of s.
func Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// Decode reverses Encode. Corrupted input is returned unchanged so a
// single bad record never breaks a whole listing.
func Decode(s string) string {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return s
	}
	return string(decoded)
}
