// Package attachments resolves attachment references against a local
// directory with a public URL prefix.
package attachments

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"formdesk/internal/notify"
)

// DirResolver maps attachment references to files under a root directory.
// A reference resolves only when the file exists and is a regular file;
// references escaping the root are rejected.
type DirResolver struct {
	root    string
	baseURL string
}

// NewDir constructs a directory-backed resolver.
func NewDir(root, baseURL string) *DirResolver {
	return &DirResolver{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (r *DirResolver) Resolve(_ context.Context, ref string) (notify.Attachment, error) {
	clean := filepath.Clean(ref)
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return notify.Attachment{}, fmt.Errorf("invalid attachment reference %q", ref)
	}

	path := filepath.Join(r.root, clean)
	info, err := os.Stat(path)
	if err != nil {
		return notify.Attachment{}, fmt.Errorf("no file found for attachment %q: %w", ref, err)
	}
	if info.IsDir() {
		return notify.Attachment{}, fmt.Errorf("attachment %q is a directory", ref)
	}

	return notify.Attachment{
		URL:  r.baseURL + "/" + filepath.ToSlash(clean),
		Path: path,
	}, nil
}
