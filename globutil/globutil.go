// Package globutil provides the minimal glob matching and directory
// scanning sitegraph's loader primitive and incremental tracker both
// need: supporting "**" (match any number of path segments) in addition
// to the single-segment wildcards path/filepath.Match already handles.
//
// No glob library appears anywhere in the retrieved example corpus (the
// teacher walks directories by file extension with filepath.WalkDir, see
// internal/fsutil.FindFilesByExtension); this package follows that same
// filepath.WalkDir-based walking style and adds just enough pattern
// translation — a regexp built once per pattern — to support "**", since
// the spec's loader primitive (§4.E "task().glob(pattern)") requires it
// and the standard library alone does not provide it.
package globutil

import (
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Match reports whether path matches pattern. Patterns use forward
// slashes regardless of OS, "*" to match within one path segment, and
// "**" to match across segment boundaries (including zero segments).
func Match(pattern, path string) bool {
	re := compile(pattern)
	return re.MatchString(filepath.ToSlash(path))
}

// Find walks root and returns every regular file path (OS-native
// separators) matching pattern, relative to root, sorted for
// deterministic iteration order.
func Find(root, pattern string) ([]string, error) {
	re := compile(pattern)
	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if re.MatchString(filepath.ToSlash(rel)) {
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*regexp.Regexp{}
)

func compile(pattern string) *regexp.Regexp {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if re, ok := cache[pattern]; ok {
		return re
	}
	re := regexp.MustCompile("^" + translate(pattern) + "$")
	cache[pattern] = re
	return re
}

// translate converts a "**"/"*"/"?" glob pattern into an equivalent
// regexp, segment by segment.
func translate(pattern string) string {
	var b strings.Builder
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if i > 0 && segments[i-1] != "**" {
			b.WriteString(`/`)
		}
		if seg == "**" {
			if i == len(segments)-1 {
				// A trailing "**" matches everything below this point.
				b.WriteString(`.*`)
			} else {
				// "**/" matches zero or more whole segments, each with its
				// trailing slash, so "**/x" also matches a bare "x".
				b.WriteString(`(?:.*/)?`)
			}
			continue
		}
		for _, r := range seg {
			switch r {
			case '*':
				b.WriteString(`[^/]*`)
			case '?':
				b.WriteString(`[^/]`)
			case '.', '+', '(', ')', '^', '$', '|', '[', ']', '{', '}', '\\':
				b.WriteString(`\`)
				b.WriteRune(r)
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
