// Package config defines podlink's bootstrap configuration.
//
//   - spec.go: Config and its sections
//   - default.go: default values
//   - verify.go: validation
//   - loader.go: loading through confloader and the default file location
package config
