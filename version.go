package barter

import "fmt"

// Release numbers of this build.
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "-dev"
)

// GitCommit is set by the linker, for example
//
//	go build -ldflags "-X github.com/iov-one/barter.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit = ""

// Version returns the semantic version followed by the commit, if known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit == "" {
		return v
	}
	return v + " " + GitCommit
}
