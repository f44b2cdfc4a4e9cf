package texprinter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLoopGuard is returned when an image substitution loop exceeds its
// iteration ceiling. It aborts the whole document.
var ErrLoopGuard = errors.New("possible infinite loop in the image replacement")

// ErrUnreadableFragment is returned when a fragment cannot be read at all.
var ErrUnreadableFragment = errors.New("unable to read fragment")

// loopGuardCeiling is the number of ticks a LoopGuard allows.
const loopGuardCeiling = 10000

// defaultImageName is used when a URL ends with a slash.
const defaultImageName = "image"

// ImageReference is one image embedded in a fragment.
type ImageReference struct {
	URL       string
	LocalName string
	AltText   string
}

// NewImageReference derives the local file name from the last path segment of url.
func NewImageReference(url, alt string) ImageReference {
	return ImageReference{
		URL:       url,
		LocalName: LocalName(url),
		AltText:   alt,
	}
}

// LocalName returns the part of url after the final '/'.
func LocalName(url string) string {
	name := url
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		name = url[i+1:]
	}
	if name == "" {
		return defaultImageName
	}
	return name
}

// LoopGuard counts iterations of a substitution loop.
type LoopGuard struct {
	ticks int
	limit int
}

// NewLoopGuard returns a guard with the standard ceiling.
func NewLoopGuard() *LoopGuard {
	return &LoopGuard{limit: loopGuardCeiling}
}

// Tick records one iteration. Once the ceiling is exceeded every call returns
// an error wrapping ErrLoopGuard.
func (g *LoopGuard) Tick() error {
	g.ticks++
	if g.ticks > g.limit {
		return fmt.Errorf("%w: %d iterations", ErrLoopGuard, g.ticks-1)
	}
	return nil
}

// Ticks returns the number of recorded iterations.
func (g *LoopGuard) Ticks() int {
	return g.ticks
}
