package assets

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/dmitrijs2005/motordesk/internal/common"
	"github.com/dmitrijs2005/motordesk/internal/server/contentstore"
)

// maxProviderMessageLen bounds raw provider error text passed through to the
// user when no known rewrite applies.
const maxProviderMessageLen = 300

// NormalizeError rewrites a provider error into a user-facing message,
// prefixed with the original filename so the admin can tell which upload
// failed. Three known provider failures get dedicated rewrites; anything else
// passes through with its message truncated.
func NormalizeError(fileName string, err error) string {
	if err == nil {
		return ""
	}

	var msg string
	switch {
	case errors.Is(err, common.ErrorFileEmpty):
		msg = "the file is empty"
	case errors.Is(err, common.ErrorFileTooLarge):
		msg = "the image exceeds the 20 MiB limit"
	case contentstore.IsEntityTooLarge(err):
		msg = "the image is too large for the content store"
	case contentstore.IsValidationError(err):
		msg = "the content store rejected the generated filename"
	case isUnparseableResponse(err):
		msg = "the content store returned an unreadable response"
	default:
		msg = truncate(err.Error(), maxProviderMessageLen)
	}

	return fileName + ": " + msg
}

func isUnparseableResponse(err error) bool {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid character") || strings.Contains(msg, "unexpected end of json")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
