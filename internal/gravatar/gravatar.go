// Package gravatar derives default avatar URLs from email addresses.
//
// Gravatar addresses an image by the MD5 hash of the lowercased, trimmed
// email. MD5 is fine here — it's an identifier, not a security boundary.
package gravatar

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// URL returns the gravatar URL for the given email.
//
// Parameters match the registration defaults:
//
//	s=200  → 200px image
//	r=pg   → PG-rated images only
//	d=mm   → "mystery man" silhouette when the email has no gravatar
//
// The result is deterministic: the same email always yields the same URL.
func URL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))

	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")

	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?%s",
		hex.EncodeToString(sum[:]), q.Encode())
}
