package lightermeet

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// autoSource is the key segment used when the source language is unknown and
// left to the model to detect. An auto-detect request and an explicit-source
// request for the same text are distinct cache entries.
const autoSource = "auto"

// CacheKey builds the cache key for a translation of text into targetLang.
// Pass an empty sourceLang for auto-detection.
func CacheKey(text, targetLang, sourceLang string) string {
	src := sourceLang
	if src == "" {
		src = autoSource
	}
	return src + "::" + text + "::" + targetLang
}

// HashText computes the SHA-256 hash of the trimmed text. Used to build
// compact, stable message identities when the chat stream supplies no id.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}
