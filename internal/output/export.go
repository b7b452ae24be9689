package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atikulmunna/warp/internal/model"
)

// Export writes each build's raw log lines, verbatim with the stream
// prefix included, to "<projectName>.txt" in the given directory, creating
// it if needed. Builds without a project name fall back to
// "build-<number>.txt".
func Export(dir string, builds []*model.Build) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	for _, b := range builds {
		name := b.ProjectName
		if name == "" {
			name = fmt.Sprintf("build-%d", b.Number)
		}
		path := filepath.Join(dir, sanitizeFileName(name)+".txt")

		var sb strings.Builder
		for _, line := range b.Lines {
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
			return fmt.Errorf("export build %d: %w", b.Number, err)
		}
	}
	return nil
}

// sanitizeFileName strips characters that are unsafe in file names on the
// platforms the tool runs on.
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
