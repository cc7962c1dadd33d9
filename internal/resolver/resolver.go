// Package resolver maps user-supplied channel, handle, and playlist
// identifiers to the canonical source URLs the fetch engine should retrieve.
package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidIdentifier is returned when an identifier matches none of the
// recognized forms. It is a fatal, user-facing input error: the run
// terminates before any I/O.
var ErrInvalidIdentifier = errors.New("invalid identifier or URL")

// Resolve maps an identifier to one or more target URLs.
//
// Rules are checked in order, first match wins:
//  1. Playlist or single-video URLs pass through unchanged.
//  2. "@handle" expands to the handle's videos and shorts listings.
//  3. "UC..." channel IDs expand to the channel's videos and shorts listings.
//  4. Anything already carrying the https scheme passes through unchanged.
//
// Everything else fails with ErrInvalidIdentifier.
func Resolve(identifier string) ([]string, error) {
	if strings.Contains(identifier, "playlist?list=") || strings.Contains(identifier, "watch?v=") {
		return []string{identifier}, nil
	}

	if strings.HasPrefix(identifier, "@") {
		return []string{
			fmt.Sprintf("https://www.youtube.com/%s/videos", identifier),
			fmt.Sprintf("https://www.youtube.com/%s/shorts", identifier),
		}, nil
	}

	if strings.HasPrefix(identifier, "UC") {
		return []string{
			fmt.Sprintf("https://www.youtube.com/channel/%s/videos", identifier),
			fmt.Sprintf("https://www.youtube.com/channel/%s/shorts", identifier),
		}, nil
	}

	if strings.HasPrefix(identifier, "https://") {
		return []string{identifier}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidIdentifier, identifier)
}
