// Package confloader loads layered configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Values already present in the target struct (defaults)
//  2. YAML configuration file
//  3. Environment variables (PODLINK_ prefix, "__" separates sections)
//  4. Override map, usually built from command-line flags
//
// Files:
//
//   - loader.go: Loader and the environment key mapping
//   - provider.go: koanf provider for flat override maps
//   - watcher.go: fsnotify watcher that reports changes to config files
package confloader
