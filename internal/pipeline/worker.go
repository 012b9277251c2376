package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ooguz/odttomd/internal/convert"
	"github.com/ooguz/odttomd/internal/doctree"
	"github.com/ooguz/odttomd/internal/parser"
)

// Worker processes a single document job.
type Worker struct {
	conv *convert.Converter
	log  *slog.Logger
}

func NewWorker(conv *convert.Converter, log *slog.Logger) *Worker {
	return &Worker{conv: conv, log: log}
}

// Process converts the job's upload and stores the Markdown and its outline.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.Fail("queued", err)
		return
	}

	job.SetStatus(StatusConverting, "converting")
	md, err := Convert(w.conv, job.Filename, job.FileData())
	if err != nil {
		log.Error("conversion failed", "error", err, "kind", Classify(err))
		job.Fail("converting", err)
		return
	}

	job.SetStatus(StatusConverting, "outlining")
	tree, err := Outline(md, job.Filename)
	if err != nil {
		log.Error("outline failed", "error", err)
		job.Fail("outlining", err)
		return
	}
	if job.Title != "" {
		tree.Title = job.Title
	}

	job.Complete(md, tree)
	log.Info("conversion complete", "markdown_bytes", len(md), "sections", tree.Count())
}

// Convert runs the parser for filename over data. Output is buffered so a
// failed conversion never yields partial Markdown.
func Convert(conv *convert.Converter, filename string, data []byte) ([]byte, error) {
	p, err := parser.ForFile(filename, conv)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := p.Parse(bytes.NewReader(data), filename, &buf); err != nil {
		return nil, fmt.Errorf("convert %s: %w", filename, err)
	}
	return buf.Bytes(), nil
}

// Outline builds the heading tree of converted Markdown.
func Outline(md []byte, filename string) (*doctree.DocTree, error) {
	p := &parser.MarkdownParser{}
	tree, err := p.Parse(bytes.NewReader(md), filename)
	if err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}
	return tree, nil
}
