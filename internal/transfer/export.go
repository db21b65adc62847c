package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/sandeepkv93/taskdash/internal/model"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("transfer: unknown format")

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"Title", "Description", "Status", "Priority", "Due Date", "Categories", "Created At"}

const categorySep = "; "

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FileName is tasks_<userKey>_<YYYY-MM-DD>.<ext>.
func FileName(userKey string, f Format, now time.Time) string {
	return fmt.Sprintf("tasks_%s_%s.%s", userKey, now.Format(model.DateLayout), f)
}

func EncodeJSON(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.MarshalIndent(tasks, "", "  ")
}

// EncodeCSV quotes every field. Rows are joined by "\n" without a trailing newline.
func EncodeCSV(tasks []model.Task) []byte {
	rows := make([]string, 0, len(tasks)+1)
	rows = append(rows, strings.Join(CSVHeader, ","))
	for _, t := range tasks {
		priority := string(t.Priority)
		if priority == "" {
			priority = string(model.PriorityMedium)
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		fields := []string{
			t.Title,
			t.Description,
			string(t.Status),
			priority,
			due,
			strings.Join(t.Categories, categorySep),
			t.CreatedAt.Format(time.RFC3339),
		}
		for i, f := range fields {
			fields[i] = quote(f)
		}
		rows = append(rows, strings.Join(fields, ","))
	}
	return []byte(strings.Join(rows, "\n"))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func Encode(tasks []model.Task, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return EncodeJSON(tasks)
	case FormatCSV:
		return EncodeCSV(tasks), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Export writes tasks into dir and returns the file path.
func Export(fs afero.Fs, dir, userKey string, f Format, tasks []model.Task, now time.Time) (string, error) {
	data, err := Encode(tasks, f)
	if err != nil {
		return "", err
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(userKey, f, now))
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
