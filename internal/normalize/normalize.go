// Package normalize canonicalizes technician report text before rule matching.
package normalize

// Normalize corrects typos and canonicalizes time expressions. It never fails;
// text without anything to fix is only lower-cased.
func Normalize(raw string) string {
	return NormalizeTimeExpressions(CorrectTypos(raw))
}
