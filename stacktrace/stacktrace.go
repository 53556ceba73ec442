// Package stacktrace converts captured program counters into the structured
// frame records used by the Hivetrace error-report payload. Frames keep the
// runtime's ordering (most recent call first) and may be annotated with a
// window of surrounding source text and a project-membership flag.
package stacktrace

import (
	"fmt"
	"runtime"
	"strings"
)

// DisabledProjectPackage is a sentinel prefix that can never match a real
// function name. Passing it to Transform marks every frame as out of project.
const DisabledProjectPackage = "\x00"

// Number of source lines captured on each side of a frame's line.
const codeWindow = 3

type Frame struct {
	File       string         `json:"file"`
	LineNumber int            `json:"lineNumber"`
	Method     string         `json:"method"`
	InProject  bool           `json:"inProject"`
	Code       map[int]string `json:"code,omitempty"`
}

// Transform resolves the given program counters into an ordered sequence of
// frames. A frame belongs to the project when its qualified function name
// starts with projectPackage. Frames whose file is a Go source file are
// annotated with surrounding source text through loc; any locator failure
// leaves the frame without a snippet.
//
// Transform never panics: if frame resolution itself blows up, the result is
// a single synthetic frame describing the failure.
func Transform(pcs []uintptr, projectPackage string, loc SourceLocator) (frames []Frame) {
	defer func() {
		if cause := recover(); cause != nil {
			frames = []Frame{syntheticFrame(cause)}
		}
	}()

	frames = make([]Frame, 0, len(pcs))
	if len(pcs) == 0 {
		return frames
	}

	iter := runtime.CallersFrames(pcs)
	for {
		fr, more := iter.Next()
		f := Frame{
			File:       GopathRelativeFile(fr.File),
			LineNumber: fr.Line,
			Method:     fr.Function,
			InProject:  strings.HasPrefix(fr.Function, projectPackage),
		}
		if loc != nil && strings.HasSuffix(fr.File, ".go") {
			if window, err := loc.Window(fr.File, fr.Line, codeWindow); err == nil && len(window) > 0 {
				f.Code = window
			}
		}
		frames = append(frames, f)
		if !more {
			break
		}
	}
	return frames
}

// syntheticFrame points at this package and carries the panic message in its
// source window, so a degenerate trace is still visible on the dashboard.
func syntheticFrame(cause any) Frame {
	_, file, line, _ := runtime.Caller(0)
	return Frame{
		File:       GopathRelativeFile(file),
		LineNumber: line,
		Method:     "stacktrace.Transform",
		Code: map[int]string{
			line:     fmt.Sprintf("%v", cause),
			line + 1: "panic while building stacktrace",
		},
	}
}
