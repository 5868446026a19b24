package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeKeyChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// objectKey builds a collision-resistant storage key under the given folder,
// keeping the original extension and a sanitized slice of the base name.
func objectKey(folder, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = unsafeKeyChars.ReplaceAllString(strings.ToLower(base), "-")
	base = strings.Trim(base, "-.")
	if len(base) > 40 {
		base = base[:40]
	}
	if base == "" {
		base = "file"
	}

	suffix := make([]byte, 6)
	// rand.Read on the crypto source never fails on supported platforms
	_, _ = rand.Read(suffix)

	return fmt.Sprintf("%s/%d-%s-%s%s", folder, time.Now().UnixMilli(), hex.EncodeToString(suffix), base, ext)
}
