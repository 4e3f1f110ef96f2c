// Package tlsroots builds the trust store used to reach instances served
// with a private certificate authority.
//
// The system roots are always included; extra PEM bundles are added from
// files or directories named in http.ca_file.
package tlsroots
