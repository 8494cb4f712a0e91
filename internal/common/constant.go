package common

import "time"

// SessionCookieName is the cookie carrying the signed admin session token.
const SessionCookieName = "admin-session"

// SessionValidityDuration is the lifetime of an admin session, mirrored in
// both the token claims and the cookie max-age.
const SessionValidityDuration = 7 * 24 * time.Hour

// UploadBatchSize is the number of files submitted per multipart batch
// request.
const UploadBatchSize = 3

// MaxFileSize is the per-image upload limit enforced by the server.
const MaxFileSize = 20 << 20
