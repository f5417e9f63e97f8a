package utils

import (
	"regexp"
	"strings"
)

// driveLetter matches the "/C:" that follows "file://" in Windows file URLs.
var driveLetter = regexp.MustCompile(`^/[A-Za-z]:`)

// NormalizePath turns the URLs handed out by file pickers (file://, qrc://,
// http://) into plain paths. Other input is returned unchanged.
func NormalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "file://"):
		p := strings.TrimPrefix(path, "file://")
		if driveLetter.MatchString(p) {
			p = p[1:]
		}
		return p
	case strings.HasPrefix(path, "qrc://"):
		return strings.TrimPrefix(path, "qrc://")
	case strings.HasPrefix(path, "http://"):
		return strings.TrimPrefix(path, "http://")
	default:
		return path
	}
}
