package instance

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is matched by every *FetchError.
var ErrFetchFailed = errors.New("instance: fetch failed")

// FetchError reports a failed settings or front-settings fetch.
type FetchError struct {
	Op    string // "settings" or "front_settings"
	URL   string
	Cause error
}

func (e *FetchError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("fetch %s from %s: %v", e.Op, e.URL, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetchFailed
}

// UnknownSettingError is reported when a payload names a section or setting
// outside the known schema. The value is not stored.
type UnknownSettingError struct {
	Section string
	Name    string
}

func (e *UnknownSettingError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("unknown settings section %q", e.Section)
	}
	return fmt.Sprintf("unknown setting %s.%s", e.Section, e.Name)
}

// SettingTypeError is reported when a received value does not fit the
// setting's declared type. The leaf keeps its previous value.
type SettingTypeError struct {
	Section string
	Name    string
	Cause   error
}

func (e *SettingTypeError) Error() string {
	return fmt.Sprintf("setting %s.%s: %v", e.Section, e.Name, e.Cause)
}

func (e *SettingTypeError) Unwrap() error {
	return e.Cause
}

// MalformedRecordError describes a settings record that could not be placed
// in the tree, e.g. because it lacks a section or name.
type MalformedRecordError struct {
	Index  int
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("settings record %d: %s", e.Index, e.Reason)
}
