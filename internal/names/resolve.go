package names

// Resolve tries keys in order against lookup and returns the first non-empty
// hit. Empty keys are skipped, so callers can pass optional keys unchecked.
func Resolve(lookup func(key string) (string, bool), keys ...string) (string, bool) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if v, ok := lookup(k); ok && v != "" {
			return v, true
		}
	}
	return "", false
}
