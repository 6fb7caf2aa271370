// Package loader reads a milestone export file and produces the ordered,
// deduplicated issue, label, and assignee sequences the engine consumes.
//
// The export is JSONL: one issue per line, optionally carrying inline
// label metadata. Malformed lines are skipped so one bad record never
// sinks the collection.
package loader

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/byebb/GitLab-Milestone-Compass-sub000/pkg/model"
)

// Collection is everything extracted from one milestone export
type Collection struct {
	Issues    []model.Issue
	Labels    []model.Label
	Assignees []model.Assignee
}

// exportRecord is one line of the export: an issue plus optional label
// metadata captured alongside it.
type exportRecord struct {
	model.Issue
	LabelMeta []model.Label `json:"label_meta,omitempty"`
}

// FindExportPath locates the milestone export in the given directory.
// Prefers milestone.jsonl over issues.jsonl; skips backups and merge
// artifacts.
func FindExportPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read export directory: %w", err)
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if strings.Contains(name, ".backup") || strings.Contains(name, ".orig") ||
			strings.Contains(name, ".merge") {
			continue
		}
		candidates = append(candidates, name)
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no milestone export found in %s", dir)
	}

	for _, preferred := range []string{"milestone.jsonl", "issues.jsonl"} {
		for _, name := range candidates {
			if name == preferred {
				path := filepath.Join(dir, name)
				if info, err := os.Stat(path); err == nil && info.Size() > 0 {
					return path, nil
				}
			}
		}
	}
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return path, nil
		}
	}
	return filepath.Join(dir, candidates[0]), nil
}

// LoadCollection reads the export at path. An empty file yields an empty
// collection with no error; only I/O failures are reported.
func LoadCollection(path string) (*Collection, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open milestone export: %w", err)
	}
	defer file.Close()

	col := &Collection{}
	seenIssue := make(map[string]bool)
	seenLabel := make(map[string]int) // label id -> position in col.Labels
	seenAssignee := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	// Issues can carry large raw markup snippets
	const maxCapacity = 10 * 1024 * 1024
	buf := make([]byte, maxCapacity)
	scanner.Buffer(buf, maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if lineNum == 1 {
			line = stripBOM(line)
		}

		var rec exportRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			// Skip malformed lines but keep loading the rest
			continue
		}
		if err := rec.Validate(); err != nil {
			continue
		}
		// Identity is unique within one load; later duplicates lose
		if seenIssue[rec.ID] {
			continue
		}
		seenIssue[rec.ID] = true
		col.Issues = append(col.Issues, rec.Issue)

		for _, meta := range rec.LabelMeta {
			if meta.ID == "" {
				continue
			}
			if pos, ok := seenLabel[meta.ID]; ok {
				// Fill in text/color from whichever line carried them
				if col.Labels[pos].Text == col.Labels[pos].ID && meta.Text != "" {
					col.Labels[pos].Text = meta.Text
				}
				if col.Labels[pos].Color == "" {
					col.Labels[pos].Color = meta.Color
				}
				continue
			}
			if meta.Text == "" {
				meta.Text = meta.ID
			}
			seenLabel[meta.ID] = len(col.Labels)
			col.Labels = append(col.Labels, meta)
		}
		// Labels referenced without metadata still need an entry
		for _, id := range rec.Labels {
			if _, ok := seenLabel[id]; !ok {
				seenLabel[id] = len(col.Labels)
				col.Labels = append(col.Labels, model.Label{ID: id, Text: id})
			}
		}

		if rec.Assignee != "" && !seenAssignee[rec.Assignee] {
			seenAssignee[rec.Assignee] = true
			col.Assignees = append(col.Assignees, model.Assignee{
				Name:      rec.Assignee,
				AvatarURL: rec.Evidence.AvatarURL,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read milestone export: %w", err)
	}

	return col, nil
}

// stripBOM removes the UTF-8 byte order mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
