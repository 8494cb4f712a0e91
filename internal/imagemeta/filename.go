package imagemeta

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/motordesk/internal/common"
)

// safeNamePattern is what the content store accepts as an object filename:
// lowercase alphanumerics, dots, underscores and hyphens, ending in a 2–4
// letter extension.
var safeNamePattern = regexp.MustCompile(`^[a-z0-9._-]+\.[a-z]{2,4}$`)

// suffixLength is the number of random base36 characters appended to a
// generated filename. It is the collision guard for concurrent uploads
// landing in the same millisecond; no retry-on-collision is attempted.
const suffixLength = 8

// nowMillis is a test seam for the timestamp component.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// SafeFileName produces a collision-resistant, storage-safe filename for the
// given extension, shaped as img_<millis>_<8 base36 chars>.<ext>. An empty
// extension falls back to "jpg".
func SafeFileName(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		ext = "jpg"
	}

	suffix, err := common.MakeRandBase36String(suffixLength)
	if err != nil {
		return "", fmt.Errorf("random suffix: %w", err)
	}

	return fmt.Sprintf("img_%d_%s.%s", nowMillis(), suffix, ext), nil
}

// IsSafeFileName reports whether name matches the storage filename pattern.
func IsSafeFileName(name string) bool {
	return safeNamePattern.MatchString(name)
}
