package models

import (
	"fmt"
	"strings"
)

/*
ConfigurationError is returned when required settings are missing. The
names of the missing settings are kept for logging only and are never sent
back to a caller.
*/
type ConfigurationError struct {
	Component string
	Missing   []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s configuration is missing: %s", e.Component, strings.Join(e.Missing, ", "))
}

/*
UpstreamError is returned when the media store or mail relay answers with a
non-success status or a payload we cannot use.
*/
type UpstreamError struct {
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
	}

	return fmt.Sprintf("%s failed with status %d", e.Operation, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// ValidationError carries one human readable message per failing field.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

var (
	ErrImagesUnavailable = fmt.Errorf("unable to load images for this album, please try again later")
	ErrMailAuth          = fmt.Errorf("mail provider rejected our credentials")
)
