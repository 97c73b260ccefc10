package urlutil

import "strings"

// RelativeDepth counts the path segments linkPath has beyond basePath.
//
// Both paths are compared after trailing-slash normalization. The depth is 0
// when the paths are equal and also when linkPath is not inside basePath's
// subtree: siblings and unrelated paths score 0 just like the start page,
// which keeps a crawl confined to the start path and its descendants.
// Matching is per segment, so "/docs-old" is not inside "/docs".
func RelativeDepth(basePath, linkPath string) int {
	base := NormalizePath(basePath)
	link := NormalizePath(linkPath)

	if link == base {
		return 0
	}

	rest, ok := strings.CutPrefix(link, base)
	if !ok || !strings.HasPrefix(rest, "/") {
		return 0
	}

	depth := 0
	for _, segment := range strings.Split(rest, "/") {
		if segment != "" {
			depth++
		}
	}
	return depth
}
