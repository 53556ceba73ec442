package stacktrace

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/xerrors"
)

// SourceLocator retrieves a window of source text around a line of a file,
// keyed by absolute line number. Implementations are expected to fail rather
// than guess; callers treat any error as "no snippet available".
type SourceLocator interface {
	Window(file string, line, around int) (map[int]string, error)
}

// NopLocator yields no snippet for every frame. It keeps Transform usable
// where no source tree is present, e.g. stripped deployment images.
type NopLocator struct{}

func (NopLocator) Window(string, int, int) (map[int]string, error) {
	return nil, nil
}

// FileLocator reads source windows from the local filesystem.
type FileLocator struct{}

func (FileLocator) Window(file string, line, around int) (map[int]string, error) {
	f, err := os.Open(GuessAbsPath(file))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	window := make(map[int]string)
	scanner := bufio.NewScanner(f)
	for n := 1; scanner.Scan(); n++ {
		if n < line-around {
			continue
		}
		if n > line+around {
			break
		}
		window[n] = scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(window) == 0 {
		return nil, xerrors.Errorf("no source found at %s:%d", file, line)
	}
	return window, nil
}

// GopathRelativeFile sanitizes the path to remove GOPATH and obtain the import path.
// Concretely, this takes the path after the last instance of '/src/'.
// This may omit some of the path if there is an src directory in a package import path.
// If there are no /src/ directories in the path, the path is returned unchanged.
func GopathRelativeFile(absPath string) string {
	candidates := strings.SplitAfter(absPath, "/src/")
	if len(candidates) > 0 {
		return candidates[len(candidates)-1]
	}
	return filepath.Base(absPath)
}

// GuessAbsPath guesses the proper absolute path if it is not provided,
// making a best-effort guess so that the source locator can find the file
// on disk again after GOPATH sanitization.
func GuessAbsPath(f string) string {
	gopath := os.Getenv("GOPATH")
	// Break out if the GOPATH can't be identified, or the path
	// is already an absolute path.
	if gopath == "" || strings.HasPrefix(f, "/") {
		return f
	}

	ignoredPrefixes := []string{gopath, "external/", "GOROOT/", "bazel-"}
	for _, prefix := range ignoredPrefixes {
		if strings.HasPrefix(f, prefix) {
			return f
		}
	}

	if strings.HasPrefix(f, filepath.Base(gopath)) {
		return path.Join(filepath.Dir(gopath), f)
	}
	return path.Join(gopath, f)
}
