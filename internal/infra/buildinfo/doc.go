// Package buildinfo exposes podlink's version information.
//
// Release builds inject values via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/podlink/internal/infra/buildinfo.Version=v0.3.0 \
//	  -X github.com/yndnr/podlink/internal/infra/buildinfo.Commit=abc123"
//
// Anything not injected falls back to the module and VCS data the Go
// toolchain embeds in the binary.
package buildinfo
