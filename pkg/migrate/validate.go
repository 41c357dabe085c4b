package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir validates migration filenames and goose headers in a directory on disk.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	return ValidateFS(os.DirFS(dir), ".")
}

// ValidateFS validates the migrations found under dir in fsys.
func ValidateFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := fs.ReadFile(fsys, joinPath(dir, name))
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}
		txt := string(b)
		for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
			if !strings.Contains(txt, marker) {
				return fmt.Errorf("migration %q missing %q", name, marker)
			}
		}
	}
	return nil
}

func joinPath(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	return dir + "/" + name
}
