package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips all markup from user supplied free text (questions,
// descriptions) before it is persisted.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
