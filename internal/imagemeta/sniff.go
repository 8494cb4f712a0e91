// Package imagemeta identifies image formats from raw bytes and produces
// storage-safe filenames for them.
//
// Detection is signature-based: the leading bytes of a buffer are matched
// against a fixed-priority table of known magic numbers, so a spoofed or
// missing Content-Type cannot change what a file actually is. When no
// signature matches, a contractual fallback chain applies: the
// client-declared MIME type (if image/*), then the filename extension, then
// JPEG as the final default. Downstream filename validation depends on this
// exact precedence.
package imagemeta

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format describes a detected image type.
type Format struct {
	Name string // short format name, e.g. "jpeg"
	MIME string // canonical MIME type, e.g. "image/jpeg"
	Ext  string // canonical extension without the dot, e.g. "jpg"
}

var (
	formatJPEG = Format{Name: "jpeg", MIME: "image/jpeg", Ext: "jpg"}
	formatPNG  = Format{Name: "png", MIME: "image/png", Ext: "png"}
	formatGIF  = Format{Name: "gif", MIME: "image/gif", Ext: "gif"}
	formatWebP = Format{Name: "webp", MIME: "image/webp", Ext: "webp"}
	formatBMP  = Format{Name: "bmp", MIME: "image/bmp", Ext: "bmp"}
	formatTIFF = Format{Name: "tiff", MIME: "image/tiff", Ext: "tiff"}
	formatHEIC = Format{Name: "heic", MIME: "image/heic", Ext: "heic"}
	formatHEIF = Format{Name: "heif", MIME: "image/heif", Ext: "heif"}
)

// minSniffLen is the shortest buffer that can carry any signature we know.
const minSniffLen = 4

type signature struct {
	format Format
	match  func(b []byte) bool
}

func prefixMatcher(prefix []byte) func(b []byte) bool {
	return func(b []byte) bool {
		return bytes.HasPrefix(b, prefix)
	}
}

// heicBrands and heifBrands are the ftyp box brands mapped to each format.
var (
	heicBrands = []string{"heic", "heix", "hevc", "hevx"}
	heifBrands = []string{"heif", "mif1", "msf1"}
)

func ftypBrandMatcher(brands []string) func(b []byte) bool {
	return func(b []byte) bool {
		if len(b) < 12 || !bytes.Equal(b[4:8], []byte("ftyp")) {
			return false
		}
		brand := strings.ToLower(string(b[8:12]))
		for _, known := range brands {
			if strings.Contains(brand, known) {
				return true
			}
		}
		return false
	}
}

// signatures is checked in order; the first match wins. The entries are
// disjoint in practice, but the order is fixed on purpose so detection stays
// bit-compatible across releases.
var signatures = []signature{
	{formatJPEG, prefixMatcher([]byte{0xFF, 0xD8})},
	{formatPNG, prefixMatcher([]byte{0x89, 0x50, 0x4E, 0x47})},
	{formatGIF, prefixMatcher([]byte("GIF87a"))},
	{formatGIF, prefixMatcher([]byte("GIF89a"))},
	{formatWebP, func(b []byte) bool {
		return len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP"))
	}},
	{formatBMP, prefixMatcher([]byte{0x42, 0x4D})},
	{formatTIFF, prefixMatcher([]byte{0x49, 0x49, 0x2A, 0x00})},
	{formatTIFF, prefixMatcher([]byte{0x4D, 0x4D, 0x00, 0x2A})},
	{formatHEIC, ftypBrandMatcher(heicBrands)},
	{formatHEIF, ftypBrandMatcher(heifBrands)},
}

// DetectFormat inspects the leading bytes of b against the signature table
// and returns the first matching format. Buffers shorter than four bytes
// never match.
func DetectFormat(b []byte) (Format, bool) {
	if len(b) < minSniffLen {
		return Format{}, false
	}
	for _, s := range signatures {
		if s.match(b) {
			return s.format, true
		}
	}
	return Format{}, false
}

// formatByExt maps known extensions (without the dot) to their formats.
var formatByExt = map[string]Format{
	"jpg":  formatJPEG,
	"jpeg": formatJPEG,
	"png":  formatPNG,
	"gif":  formatGIF,
	"webp": formatWebP,
	"bmp":  formatBMP,
	"tiff": formatTIFF,
	"tif":  formatTIFF,
	"heic": formatHEIC,
	"heif": formatHEIF,
}

// formatByMIME maps declared image MIME subtypes to their formats.
var formatByMIME = map[string]Format{
	"image/jpeg": formatJPEG,
	"image/jpg":  formatJPEG,
	"image/png":  formatPNG,
	"image/gif":  formatGIF,
	"image/webp": formatWebP,
	"image/bmp":  formatBMP,
	"image/tiff": formatTIFF,
	"image/heic": formatHEIC,
	"image/heif": formatHEIF,
}

// ResolveFormat determines the format for an uploaded file.
//
// The precedence is contractual, not cosmetic:
//  1. magic-number detection on the buffer;
//  2. the client-declared MIME type, if it is a known image/* type;
//  3. the filename extension, via the same mapping table;
//  4. JPEG as the final default.
func ResolveFormat(b []byte, declaredMIME, filename string) Format {
	if f, ok := DetectFormat(b); ok {
		return f
	}

	mime := strings.ToLower(strings.TrimSpace(declaredMIME))
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	if strings.HasPrefix(mime, "image/") {
		if f, ok := formatByMIME[mime]; ok {
			return f
		}
	}

	if f, ok := FormatForFilename(filename); ok {
		return f
	}

	return formatJPEG
}

// FormatForFilename maps a filename extension to a known format.
func FormatForFilename(filename string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	f, ok := formatByExt[ext]
	return f, ok
}

// IsAllowedUpload reports whether a file passes the client-side filter:
// any image/* declared MIME type, or a filename extension on the allow-list.
func IsAllowedUpload(declaredMIME, filename string) bool {
	if strings.HasPrefix(strings.ToLower(declaredMIME), "image/") {
		return true
	}
	_, ok := FormatForFilename(filename)
	return ok
}
