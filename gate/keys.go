package gate

import "strings"

// NormalizeModuleKey trims whitespace and surrounding slashes and lowercases the key.
func NormalizeModuleKey(key string) string {
	key = strings.TrimSpace(key)
	key = strings.Trim(key, "/")
	if key == "" {
		return ""
	}
	return strings.ToLower(key)
}

// NormalizePath cleans a requested path for module lookup. Query strings and
// fragments are dropped and repeated slashes collapse.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	if path == "" {
		return "/"
	}
	segments := strings.Split(path, "/")
	kept := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment == "" || segment == "." {
			continue
		}
		kept = append(kept, segment)
	}
	return "/" + strings.Join(kept, "/")
}
