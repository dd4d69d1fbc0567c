package image

import (
	"fmt"
	"time"
)

// UpstreamError is returned when the generation API answers with a
// non-success status.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("image generation took longer than %s", e.After)
}

// AuthenticationError is returned when the API serves an HTML page instead of
// image bytes, which is how it reacts to a bad key.
type AuthenticationError struct{}

func (*AuthenticationError) Error() string {
	return "upstream returned HTML instead of an image, check the API key"
}
