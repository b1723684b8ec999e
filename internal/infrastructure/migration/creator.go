package migration

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

const migrationUpTemplate = `-- {{.Description}}
-- Created: {{.Timestamp}}

`

const migrationDownTemplate = `-- Rollback: {{.Description}}
-- Created: {{.Timestamp}}

`

// versionWidth matches the zero padded prefix of the existing files, e.g. 000004
const versionWidth = 6

// MigrationFile describes a created up/down pair
type MigrationFile struct {
	Version     uint
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// CreateMigration writes the next numbered up/down pair into dir
func CreateMigration(dir, name, description string) (*MigrationFile, error) {
	safe := sanitizeName(name)
	if safe == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	existing, err := ListMigrations(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	var next uint = 1
	if n := len(existing); n > 0 {
		next = existing[n-1].Version + 1
	}
	if description == "" {
		description = strings.ReplaceAll(safe, "_", " ")
	}

	base := fmt.Sprintf("%0*d_%s", versionWidth, next, safe)
	mf := &MigrationFile{
		Version:     next,
		Name:        safe,
		Description: description,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		UpPath:      filepath.Join(dir, base+".up.sql"),
		DownPath:    filepath.Join(dir, base+".down.sql"),
	}

	if err := writeTemplate(mf.UpPath, migrationUpTemplate, mf); err != nil {
		return nil, fmt.Errorf("failed to create up migration: %w", err)
	}
	if err := writeTemplate(mf.DownPath, migrationDownTemplate, mf); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, fmt.Errorf("failed to create down migration: %w", err)
	}
	return mf, nil
}

func writeTemplate(path, content string, data *MigrationFile) error {
	tmpl, err := template.New("migration").Parse(content)
	if err != nil {
		return err
	}
	// O_EXCL so a clashing version never overwrites a committed file
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return tmpl.Execute(f, data)
}

// sanitizeName lowercases name and collapses separators to single underscores
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}

// Entry is one migration found in a source
type Entry struct {
	Version uint
	Name    string
	HasDown bool
}

// ListMigrations returns the migrations in fsys ordered by version. Files
// that do not follow the NNNNNN_name.(up|down).sql pattern are ignored.
func ListMigrations(fsys fs.FS) ([]Entry, error) {
	files, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := make(map[uint]*Entry)
	for _, file := range files {
		base, direction, ok := splitDirection(file)
		if !ok {
			continue
		}
		prefix, name, ok := strings.Cut(base, "_")
		if !ok {
			continue
		}
		v, err := strconv.ParseUint(prefix, 10, 32)
		if err != nil {
			continue
		}
		e, ok := byVersion[uint(v)]
		if !ok {
			e = &Entry{Version: uint(v), Name: name}
			byVersion[uint(v)] = e
		}
		if direction == "down" {
			e.HasDown = true
		}
	}

	entries := make([]Entry, 0, len(byVersion))
	for _, e := range byVersion {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Version < entries[j].Version })
	return entries, nil
}

func splitDirection(file string) (base, direction string, ok bool) {
	if b, found := strings.CutSuffix(file, ".up.sql"); found {
		return b, "up", true
	}
	if b, found := strings.CutSuffix(file, ".down.sql"); found {
		return b, "down", true
	}
	return "", "", false
}
