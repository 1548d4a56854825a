// Package pipeline runs a single load: resolve the source, parse it,
// validate it and project a preview. The first failing stage ends the
// load and its error is returned unchanged.
package pipeline

import (
	"context"
	"time"

	"github.com/nconklindev/roster/internal/logging"
	"github.com/nconklindev/roster/internal/preview"
	"github.com/nconklindev/roster/internal/sheet"
	"github.com/nconklindev/roster/internal/types"
	"github.com/nconklindev/roster/internal/validate"

	"github.com/google/uuid"
)

// Resolver turns a source spec into bytes.
type Resolver interface {
	Resolve(ctx context.Context, spec string) (*types.Payload, error)
}

// Parser decodes a payload into a table.
type Parser interface {
	Parse(p *types.Payload) (*types.Table, error)
}

// ParserFunc adapts a function to Parser.
type ParserFunc func(p *types.Payload) (*types.Table, error)

func (f ParserFunc) Parse(p *types.Payload) (*types.Table, error) { return f(p) }

// Validator checks a table. A nil error means the table is valid.
type Validator interface {
	Validate(t *types.Table) error
}

type Pipeline struct {
	resolver    Resolver
	parser      Parser
	validator   Validator
	previewRows int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithParser replaces the spreadsheet parser.
func WithParser(p Parser) Option {
	return func(pl *Pipeline) { pl.parser = p }
}

// WithValidator replaces the roster schema validator.
func WithValidator(v Validator) Option {
	return func(pl *Pipeline) { pl.validator = v }
}

// WithPreviewRows overrides preview.DefaultRows.
func WithPreviewRows(n int) Option {
	return func(pl *Pipeline) { pl.previewRows = n }
}

func New(resolver Resolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver:    resolver,
		parser:      ParserFunc(sheet.Parse),
		validator:   validate.New(),
		previewRows: preview.DefaultRows,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewLoadID returns a fresh identifier for a load.
func NewLoadID() string {
	return uuid.NewString()
}

// Run performs one load of spec. When ctx carries no load ID a new one is
// assigned for logging.
func (p *Pipeline) Run(ctx context.Context, spec string) (*types.Preview, error) {
	if logging.LoadID(ctx) == "" {
		ctx = logging.WithLoadID(ctx, NewLoadID())
	}
	logger := logging.WithFields(ctx, "source", spec)
	start := time.Now()

	logger.Info("load started")

	payload, err := p.resolver.Resolve(ctx, spec)
	if err != nil {
		logger.Warn("resolve failed", "error", err)
		return nil, err
	}
	logger.Debug("source resolved", "bytes", len(payload.Data), "format", payload.Format)

	table, err := p.parser.Parse(payload)
	if err != nil {
		logger.Warn("parse failed", "error", err)
		return nil, err
	}
	logger.Debug("sheet parsed", "columns", len(table.Columns), "rows", len(table.Rows))

	if err := p.validator.Validate(table); err != nil {
		logger.Warn("validation failed", "error", err)
		return nil, err
	}

	pv := preview.Project(table, p.previewRows)
	pv.Source = payload.Name

	logger.Info("load completed",
		"rows", pv.TotalRows,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pv, nil
}
