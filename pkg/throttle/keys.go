package throttle

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/text/secure/precis"
)

// normalizeIdentity canonicalizes a login identity so that case and
// whitespace variants of the same email map to one throttle key.
// PRECIS UsernameCaseMapped handles Unicode identities; inputs it
// rejects fall back to plain lowercase trimming.
func normalizeIdentity(identity string) string {
	trimmed := strings.TrimSpace(identity)
	if normalized, err := precis.UsernameCaseMapped.String(trimmed); err == nil {
		return normalized
	}
	return strings.ToLower(trimmed)
}

// hashKey digests the labeled value so stores never see plaintext
// identities or addresses.
func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func identityKey(identity string) string {
	return hashKey("identity:" + normalizeIdentity(identity))
}

func originKey(origin string) string {
	return hashKey("origin:" + strings.TrimSpace(origin))
}

func comboKey(identity, origin string) string {
	return hashKey("combo:" + normalizeIdentity(identity) + "|" + strings.TrimSpace(origin))
}
