package service

import (
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/votehub/voting-api/internal/core/domain"
)

var strictPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from user supplied labels. Entities escaped by the
// policy are decoded again so "Tom & Jerry" survives unchanged.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
