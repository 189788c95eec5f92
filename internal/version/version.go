// Package version holds the build version, overridable at link time with
// -ldflags "-X github.com/wjhuron/Huronalytics/internal/version.Version=...".
package version

var Version = "dev"
