package types

import (
	"fmt"
	"strings"
)

// Photo is an image carried by a PHOTO or LOGO property.
//
// Data holds the decoded bytes when the image was embedded. URL is set
// instead when the property only referenced an external resource.
type Photo struct {
	Property string // "PHOTO" or "LOGO"
	MIMEType string // "image/jpeg", "image/png", ... ("" if undeclared)
	URL      string
	Data     []byte
	Primary  bool
}

// String returns a human-readable description of the photo.
//
// Example output: "PHOTO (JPEG, 24KB)"
func (p Photo) String() string {
	if len(p.Data) == 0 && p.URL != "" {
		return fmt.Sprintf("%s (%s)", p.Property, p.URL)
	}
	return fmt.Sprintf("%s (%s, %s)", p.Property, mimeToFormat(p.MIMEType), formatSize(len(p.Data)))
}

// formatSize formats byte size in human-readable form.
func formatSize(bytes int) string {
	const (
		KB = 1024
		MB = 1024 * KB
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%dKB", bytes/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

// mimeToFormat converts MIME type to short format name.
func mimeToFormat(mime string) string {
	switch mime {
	case "image/jpeg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	case "image/tiff":
		return "TIFF"
	case "image/webp":
		return "WebP"
	default:
		return "Image"
	}
}

// MIMETypeFor maps a vCard image TYPE token (JPEG, GIF, PNG, ...) or a full
// media type to a MIME type. Unknown tokens give "".
func MIMETypeFor(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	if strings.Contains(t, "/") {
		return t
	}
	switch t {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "bmp":
		return "image/bmp"
	case "tiff", "tif":
		return "image/tiff"
	case "webp":
		return "image/webp"
	}
	return ""
}

// FormatToken is the inverse of MIMETypeFor for the image types vCard 2.1
// and 3.0 know how to name.
func FormatToken(mime string) string {
	switch mime {
	case "image/jpeg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	case "image/tiff":
		return "TIFF"
	case "image/webp":
		return "WEBP"
	}
	return ""
}
