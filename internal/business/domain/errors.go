package domain

import "errors"

var (
	// ErrBusinessNotFound means no business exists with the given ID or slug
	ErrBusinessNotFound = errors.New("business not found")

	// ErrLocationNotFound means no location exists with the given ID for the business
	ErrLocationNotFound = errors.New("location not found")

	// ErrDuplicateSlug means another business already uses the slug
	ErrDuplicateSlug = errors.New("slug already in use")
)
