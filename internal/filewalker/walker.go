package filewalker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// SupportedExtensions lists the item dump files the tool reads.
var SupportedExtensions = map[string]bool{
	".txt": true,
}

// Walker traverses directories looking for clipboard item dumps.
type Walker struct{}

// NewWalker creates a Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// FileEntry represents a discovered dump file.
type FileEntry struct {
	Path string
	Ext  string
}

// ItemText is one item copied from the game client.
type ItemText struct {
	// Path is the dump file the item came from.
	Path string
	// Line is the 1-based line the item starts on.
	Line int
	Text string
}

// Walk discovers all supported files under the given root directory.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !SupportedExtensions[ext] {
			return nil
		}
		entries = append(entries, FileEntry{Path: path, Ext: ext})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered files")
	return entries, nil
}

// ReadFile splits a dump into item texts. Items are separated by one or
// more blank lines; the "--------" lines inside an item are kept.
func (w *Walker) ReadFile(entry FileEntry) ([]ItemText, error) {
	file, err := os.Open(entry.Path)
	if err != nil {
		return nil, fmt.Errorf("open item file: %w", err)
	}
	defer file.Close()

	var (
		items []ItemText
		block []string
		start int
	)
	flush := func() {
		if len(block) > 0 {
			items = append(items, ItemText{Path: entry.Path, Line: start, Text: strings.Join(block, "\n")})
		}
		block = nil
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 4*1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if n == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if len(block) == 0 {
			start = n
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan item file: %w", err)
	}
	flush()
	return items, nil
}
