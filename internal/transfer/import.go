package transfer

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sandeepkv93/taskdash/internal/metrics"
	"github.com/sandeepkv93/taskdash/internal/model"
)

// minCSVColumns is the number of leading columns a CSV row must carry.
const minCSVColumns = 5

// Adder receives imported tasks. *store.Store satisfies it.
type Adder interface {
	AddTask(ctx context.Context, d model.TaskDraft) (model.Task, error)
}

type Result struct {
	Imported int
	Skipped  int
}

// Message renders the user-facing outcome of an import.
func Message(res Result, err error) string {
	switch {
	case err != nil:
		return "Error importing file: " + err.Error()
	case res.Imported == 0:
		return "No valid tasks found in file"
	default:
		return fmt.Sprintf("Successfully imported %d tasks!", res.Imported)
	}
}

// Supported reports whether path has an importable extension.
func Supported(path string) bool {
	_, err := ParseFormat(filepath.Ext(path))
	return err == nil
}

// DecodeJSON reads an array of task-like objects. Ids, timestamps, comments
// and attachments in the input are ignored.
func DecodeJSON(data []byte) ([]model.TaskDraft, error) {
	var drafts []model.TaskDraft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return drafts, nil
}

// DecodeCSV parses an exported CSV. The header row is dropped; rows with fewer
// than five columns or an unreadable status, priority or due date are counted
// in skipped instead of failing the file.
func DecodeCSV(data []byte) (drafts []model.TaskDraft, skipped int, err error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header := true
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decode csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		d, ok := draftFromRecord(rec)
		if !ok {
			skipped++
			continue
		}
		drafts = append(drafts, d)
	}
	return drafts, skipped, nil
}

func draftFromRecord(rec []string) (model.TaskDraft, bool) {
	if len(rec) < minCSVColumns {
		return model.TaskDraft{}, false
	}
	d := model.TaskDraft{
		Title:       rec[0],
		Description: rec[1],
		Priority:    model.PriorityMedium,
	}
	if s := strings.TrimSpace(rec[2]); s != "" {
		st, err := model.ParseStatus(s)
		if err != nil {
			return model.TaskDraft{}, false
		}
		d.Status = st
	}
	if s := strings.TrimSpace(rec[3]); s != "" {
		p, err := model.ParsePriority(s)
		if err != nil {
			return model.TaskDraft{}, false
		}
		d.Priority = p
	}
	if s := strings.TrimSpace(rec[4]); s != "" {
		due, err := model.ParseDate(s)
		if err != nil {
			return model.TaskDraft{}, false
		}
		d.DueDate = &due
	}
	if len(rec) > 5 && strings.TrimSpace(rec[5]) != "" {
		for _, c := range strings.Split(rec[5], categorySep) {
			if c = strings.TrimSpace(c); c != "" {
				d.Categories = append(d.Categories, c)
			}
		}
	}
	return d, true
}

// Importer feeds files into an Adder.
type Importer struct {
	fs      afero.Fs
	dst     Adder
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewImporter(fs afero.Fs, dst Adder, logger *zap.Logger, m *metrics.Metrics) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{fs: fs, dst: dst, logger: logger, metrics: m}
}

// ImportFile reads path and adds every valid record. Files with an
// unsupported extension import nothing.
func (im *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return Result{}, nil
	}
	data, err := afero.ReadFile(im.fs, path)
	if err != nil {
		im.metrics.ImportRecord("failed")
		return Result{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return im.Import(ctx, data, f)
}

func (im *Importer) Import(ctx context.Context, data []byte, f Format) (Result, error) {
	var (
		drafts []model.TaskDraft
		res    Result
		err    error
	)
	switch f {
	case FormatJSON:
		drafts, err = DecodeJSON(data)
	case FormatCSV:
		drafts, res.Skipped, err = DecodeCSV(data)
	default:
		return Result{}, nil
	}
	if err != nil {
		im.metrics.ImportRecord("failed")
		return Result{}, err
	}
	for range res.Skipped {
		im.metrics.ImportRecord("skipped")
	}

	for _, d := range drafts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if strings.TrimSpace(d.Title) == "" {
			res.Skipped++
			im.metrics.ImportRecord("skipped")
			continue
		}
		if _, err := im.dst.AddTask(ctx, d); err != nil {
			if errors.Is(err, model.ErrInvalidTask) {
				res.Skipped++
				im.metrics.ImportRecord("skipped")
				continue
			}
			return res, err
		}
		res.Imported++
		im.metrics.ImportRecord("imported")
	}
	im.logger.Info("import finished",
		zap.String("format", string(f)),
		zap.Int("imported", res.Imported),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}
