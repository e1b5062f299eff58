package http1

import "strings"

// CanonicalizeURI rebuilds a request path so it cannot name anything above
// the root. A ".." segment pops the last kept segment and is discarded when
// nothing is left to pop; "." and empty segments are dropped. The result
// always starts with "/" and never ends with one, unless it is the root.
//
//	/a/./b//c   -> /a/b/c
//	/a/../../b  -> /b
//	/../x       -> /x
//	../../etc   -> /etc
//
// Filesystem paths must be built from the result, never from the raw URI.
func CanonicalizeURI(path string) string {
	segments := make([]string, 0, strings.Count(path, "/")+1)
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, seg)
		}
	}
	return "/" + strings.Join(segments, "/")
}
