package image

import "bytes"

// ContentType classifies image bytes by their leading magic bytes, falling
// back to JPEG.
func ContentType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0x89, 0x50}):
		return "image/png"
	case bytes.HasPrefix(data, []byte{0x47, 0x49}):
		return "image/gif"
	case bytes.HasPrefix(data, []byte("RIFF")):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func looksLikeHTML(data []byte) bool {
	head := bytes.ToLower(data[:min(len(data), 500)])
	return bytes.Contains(head, []byte("<!doctype html")) || bytes.Contains(head, []byte("<html"))
}
