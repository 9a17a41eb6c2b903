package transport

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// resolve turns a percent-encoded resource path into a clean, rooted,
// unescaped slash path. Rooted cleaning drops any ".." that would climb
// above the content root.
func resolve(p string) (string, error) {
	if !strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q is not rooted", domain.ErrInvalidPath, p)
	}
	unescaped, err := url.PathUnescape(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidPath, err)
	}
	cleaned := path.Clean(unescaped)
	if cleaned == "/" {
		return "", fmt.Errorf("%w: %q names the content root", domain.ErrInvalidPath, p)
	}
	return cleaned, nil
}

// isSubpath reports whether child is within root, preventing path traversal.
func isSubpath(root, child string) bool {
	absRoot, _ := filepath.Abs(root)
	absChild, _ := filepath.Abs(child)
	rel, err := filepath.Rel(absRoot, absChild)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && rel != ".."
}
