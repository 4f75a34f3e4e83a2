// Package taskbase holds project-wide metadata shared by the CLI and the
// HTTP server.
package taskbase

// Version is the current taskbase release.
const Version = "0.1.0"
