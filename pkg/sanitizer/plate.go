package sanitizer

import "strings"

// NormalizePlate canonicalizes a license plate: trims surrounding whitespace,
// collapses inner runs of whitespace, and uppercases. Two plates that differ
// only in case or spacing refer to the same vehicle.
func NormalizePlate(plate string) string {
	return strings.ToUpper(TrimAndNormalize(plate))
}
