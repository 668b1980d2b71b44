package logger

import (
	"fmt"
	"runtime"
	"strings"
)

// CaptureStacktrace captures the current call stack as a formatted string,
// one "function\n\tfile:line" frame per entry. skip counts frames to drop
// (CaptureStacktrace itself plus its callers), depth caps the number of
// frames (0 means the 32-frame default).
func CaptureStacktrace(skip int, depth int) string {
	maxDepth := depth
	if maxDepth <= 0 {
		maxDepth = 32
	}

	var frames []string
	pcs := make([]uintptr, maxDepth*2)
	n := runtime.Callers(skip, pcs)

	if n == 0 {
		return ""
	}

	callersFrames := runtime.CallersFrames(pcs[:n])
	frameCount := 0
	for {
		frame, more := callersFrames.Next()

		frames = append(frames, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		frameCount++

		if frameCount >= maxDepth || !more {
			break
		}
	}

	return strings.Join(frames, "\n")
}

// shouldCaptureStacktrace reports whether entries at level meet the
// configured stacktrace threshold.
func shouldCaptureStacktrace(level string, config ManagerConfig) bool {
	if !config.EnableStacktrace {
		return false
	}

	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
		"fatal": 4,
	}

	currentLevel := levels[level]
	thresholdLevel := levels[config.StacktraceLevel]

	return currentLevel >= thresholdLevel
}
