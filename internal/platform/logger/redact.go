package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
)

type fieldAction int

const (
	keepField fieldAction = iota
	redactField
	hashField
)

// Matched by substring against the lowercased key, first match wins. Learner and owner
// ids are auth subjects (often emails), so they are hashed: requests stay correlatable
// without the address landing in logs.
var fieldRules = []struct {
	marker string
	action fieldAction
}{
	{"token", redactField},
	{"authorization", redactField},
	{"secret", redactField},
	{"password", redactField},
	{"cookie", redactField},
	{"api_key", redactField},
	{"apikey", redactField},
	{"user_id", hashField},
	{"holder", hashField},
	{"subject", hashField},
}

var (
	redactOnce sync.Once
	redactOn   bool
	hashSalt   string
)

func redactionEnabled() bool {
	redactOnce.Do(func() {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			redactOn = false
		default:
			redactOn = true
		}
		hashSalt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
	})
	return redactOn
}

func actionFor(key string) fieldAction {
	for _, r := range fieldRules {
		if strings.Contains(key, r.marker) {
			return r.action
		}
	}
	return keepField
}

// sanitizeKVs applies fieldRules to a zap key/value list. A trailing key without a value is kept.
func sanitizeKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 || !redactionEnabled() {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		key := stringify(kv[i])
		out = append(out, key, sanitizeValue(strings.ToLower(key), kv[i+1]))
	}
	if len(kv)%2 == 1 {
		out = append(out, kv[len(kv)-1])
	}
	return out
}

func sanitizeValue(key string, val interface{}) interface{} {
	switch actionFor(key) {
	case redactField:
		return "[REDACTED]"
	case hashField:
		return hashed(val)
	}
	switch v := val.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[k] = sanitizeValue(strings.ToLower(strings.TrimSpace(k)), inner)
		}
		return out
	case string:
		if isJWTShaped(v) {
			return "[REDACTED]"
		}
	}
	return val
}

func hashed(val interface{}) string {
	raw := stringify(val)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(hashSalt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

// isJWTShaped catches bearer tokens logged under an innocent key.
func isJWTShaped(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
