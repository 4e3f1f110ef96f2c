package instance

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-viper/mapstructure/v2"
	kmaps "github.com/knadh/koanf/maps"
	"github.com/mitchellh/copystructure"
)

// Record is one setting as received from the instance, typically
// {"section": ..., "name": ..., "value": ..., "help_text": ...}.
type Record map[string]any

// Tree groups records by section, then by setting name.
type Tree map[string]map[string]Record

// Setting is a typed leaf of the settings tree. Extra keeps every field of the
// received record other than "value".
type Setting[T any] struct {
	Value T              `json:"value" yaml:"value"`
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// InstanceSection holds the instance identity fields.
type InstanceSection struct {
	Name             Setting[string] `json:"name" yaml:"name"`
	ShortDescription Setting[string] `json:"short_description" yaml:"short_description"`
	LongDescription  Setting[string] `json:"long_description" yaml:"long_description"`
}

// UsersSection holds the user registration policy.
type UsersSection struct {
	RegistrationEnabled Setting[bool] `json:"registration_enabled" yaml:"registration_enabled"`
	UploadQuota         Setting[int]  `json:"upload_quota" yaml:"upload_quota"`
}

// SubsonicSection toggles the Subsonic-compatible API.
type SubsonicSection struct {
	Enabled Setting[bool] `json:"enabled" yaml:"enabled"`
}

// RavenSection holds front-end error reporting toggles.
type RavenSection struct {
	FrontEnabled Setting[bool]    `json:"front_enabled" yaml:"front_enabled"`
	FrontDSN     Setting[*string] `json:"front_dsn" yaml:"front_dsn"`
}

// Settings is the server-advertised configuration known to the client.
type Settings struct {
	Instance InstanceSection `json:"instance" yaml:"instance"`
	Users    UsersSection    `json:"users" yaml:"users"`
	Subsonic SubsonicSection `json:"subsonic" yaml:"subsonic"`
	Raven    RavenSection    `json:"raven" yaml:"raven"`
}

// DefaultSettings returns the skeleton used before the instance has been
// asked for its settings.
func DefaultSettings() Settings {
	return Settings{
		Users: UsersSection{
			RegistrationEnabled: Setting[bool]{Value: true},
		},
		Subsonic: SubsonicSection{
			Enabled: Setting[bool]{Value: true},
		},
	}
}

type leaf interface {
	apply(rec Record) error
	current() any
}

func (s *Setting[T]) apply(rec Record) error {
	if raw, ok := rec["value"]; ok {
		raw = unwrapValue(raw)
		var v T
		if err := mapstructure.Decode(raw, &v); err != nil {
			return err
		}
		s.Value = v
	}

	extra := make(map[string]any, len(rec))
	for k, v := range rec {
		if k != "value" {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		return nil
	}
	if s.Extra == nil {
		s.Extra = make(map[string]any, len(extra))
	}
	// kmaps.Merge keeps references to its source, so hand it a private copy.
	kmaps.Merge(kmaps.Copy(extra), s.Extra)
	return nil
}

// unwrapValue strips values sent wrapped in their own record, as in
// {"value": {"value": "Pod"}}. Other maps are returned unchanged.
func unwrapValue(raw any) any {
	for {
		wrapped, ok := raw.(map[string]any)
		if !ok {
			return raw
		}
		inner, ok := wrapped["value"]
		if !ok {
			return raw
		}
		raw = inner
	}
}

func (s *Setting[T]) current() any {
	return s.Value
}

func (s *Settings) leaves() map[string]map[string]leaf {
	return map[string]map[string]leaf{
		"instance": {
			"name":              &s.Instance.Name,
			"short_description": &s.Instance.ShortDescription,
			"long_description":  &s.Instance.LongDescription,
		},
		"users": {
			"registration_enabled": &s.Users.RegistrationEnabled,
			"upload_quota":         &s.Users.UploadQuota,
		},
		"subsonic": {
			"enabled": &s.Subsonic.Enabled,
		},
		"raven": {
			"front_enabled": &s.Raven.FrontEnabled,
			"front_dsn":     &s.Raven.FrontDSN,
		},
	}
}

// Merge applies tree onto s leaf by leaf. Leaves not named in tree are left
// alone. Unknown sections and names are not stored; each one is reported as
// an *UnknownSettingError. Values of the wrong type are reported as
// *SettingTypeError and the leaf keeps its previous value.
func (s *Settings) Merge(tree Tree) []error {
	var errs []error
	index := s.leaves()

	for _, section := range slices.Sorted(maps.Keys(tree)) {
		fields, ok := index[section]
		if !ok {
			errs = append(errs, &UnknownSettingError{Section: section})
			continue
		}
		records := tree[section]
		for _, name := range slices.Sorted(maps.Keys(records)) {
			l, ok := fields[name]
			if !ok {
				errs = append(errs, &UnknownSettingError{Section: section, Name: name})
				continue
			}
			if err := l.apply(records[name]); err != nil {
				errs = append(errs, &SettingTypeError{Section: section, Name: name, Cause: err})
			}
		}
	}
	return errs
}

// Values flattens s into section -> name -> value.
func (s *Settings) Values() map[string]map[string]any {
	out := make(map[string]map[string]any)
	for section, fields := range s.leaves() {
		out[section] = make(map[string]any, len(fields))
		for name, l := range fields {
			out[section][name] = l.current()
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	c, err := copystructure.Copy(s)
	if err != nil {
		// Settings only contains plain data; Copy cannot fail on it.
		panic(fmt.Sprintf("instance: copy settings: %v", err))
	}
	return c.(Settings)
}

// BuildTree groups a flat list of records by section and name. Records
// without a string section or name are skipped and reported. A later record
// for the same section and name replaces an earlier one.
func BuildTree(records []Record) (Tree, []error) {
	tree := make(Tree)
	var skipped []error

	for i, rec := range records {
		if rec == nil {
			skipped = append(skipped, &MalformedRecordError{Index: i, Reason: "null record"})
			continue
		}
		section, ok := rec["section"].(string)
		if !ok || section == "" {
			skipped = append(skipped, &MalformedRecordError{Index: i, Reason: "missing section"})
			continue
		}
		name, ok := rec["name"].(string)
		if !ok || name == "" {
			skipped = append(skipped, &MalformedRecordError{Index: i, Reason: "missing name"})
			continue
		}
		if tree[section] == nil {
			tree[section] = make(map[string]Record)
		}
		tree[section][name] = rec
	}
	return tree, skipped
}
