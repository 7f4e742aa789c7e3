// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// version.go - build metadata stamped into the library and the wirepack CLI
// with -ldflags, reported by Version() and `wirepack -version`.

package wirepack

// Build metadata. The defaults mark an unstamped local build.
//
//	BuildDate format : YYYY.MM.DD-HHMM  (24-hour clock)
//	BuildEnv  values : dev | qa | prod
var (
	// Set with: -ldflags "-X 'github.com/AndrewDonelson/wirepack.BuildDate=2026.10.18-0930'"
	BuildDate = "0000.00.00-0000"

	// Set with: -ldflags "-X 'github.com/AndrewDonelson/wirepack.BuildEnv=prod'"
	BuildEnv = "dev"
)

// Version returns "BuildDate-BuildEnv", e.g. "2026.10.18-0930-prod".
func Version() string {
	return BuildDate + "-" + BuildEnv
}
