package service

import (
	"strings"
)

// EvaluateDiagnosis scores a free-text submission against the case's true
// name: both sides are trimmed and lowercased, then the true name must appear
// as a substring of the submission, so extra words around the correct term
// still score correct.
func EvaluateDiagnosis(caseName, submission string) bool {
	truth := strings.ToLower(strings.TrimSpace(caseName))
	answer := strings.ToLower(strings.TrimSpace(submission))
	if truth == "" || answer == "" {
		return false
	}
	return strings.Contains(answer, truth)
}
