package config

import (
	"bytes"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/bnema/geobadge/internal/infrastructure/filesystem"
	"github.com/pelletier/go-toml/v2"
)

var sectionHeader = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)

// WriteConfigOrdered encodes v as TOML with sections sorted alphabetically and
// replaces path atomically.
func WriteConfigOrdered(v any, path string) error {
	if v == nil {
		return fmt.Errorf("config is nil")
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := filesystem.WriteFileAtomic(path, []byte(sortTOMLSections(buf.String())), filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// sortTOMLSections keeps top-level keys first and orders [sections] by name.
func sortTOMLSections(content string) string {
	type section struct {
		name  string
		lines []string
	}

	var preamble []string
	var sections []section
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		if match := sectionHeader.FindStringSubmatch(line); match != nil {
			sections = append(sections, section{name: match[1]})
		}
		if len(sections) == 0 {
			if strings.TrimSpace(line) != "" {
				preamble = append(preamble, line)
			}
			continue
		}
		last := &sections[len(sections)-1]
		if strings.TrimSpace(line) != "" {
			last.lines = append(last.lines, line)
		}
	}

	slices.SortStableFunc(sections, func(a, b section) int {
		return strings.Compare(a.name, b.name)
	})

	blocks := make([]string, 0, len(sections)+1)
	if len(preamble) > 0 {
		blocks = append(blocks, strings.Join(preamble, "\n"))
	}
	for _, s := range sections {
		blocks = append(blocks, strings.Join(s.lines, "\n"))
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}
