// Package output renders podlink command results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned tables, the Tabler interface
//   - json.go, yaml.go: machine-readable formats
//   - spinner.go: activity indicator shown on stderr while fetching
package output
