package hivetrace

import (
	"os"
	"strings"
	"sync"

	git "github.com/go-git/go-git/v5"
)

// Placeholder used when a best-effort probe cannot produce a value.
const unknownValue = "unknown"

var (
	revisionOnce sync.Once
	revision     string
)

// currentRevision returns the source-control revision of the working
// directory, computed at most once per process. Failure to resolve a
// repository yields the placeholder, never an error.
func currentRevision() string {
	revisionOnce.Do(func() {
		revision = lookupRevision()
	})
	return revision
}

func lookupRevision() string {
	repo, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return unknownValue
	}
	head, err := repo.Head()
	if err != nil {
		return unknownValue
	}
	return head.Hash().String()
}

// lookupHostname probes the local hostname, shortened at the first dot.
func lookupHostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return unknownValue
	}
	return shortenHostname(h)
}

func shortenHostname(h string) string {
	if short := strings.Index(h, "."); short != -1 {
		return h[:short]
	}
	return h
}
