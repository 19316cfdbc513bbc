// Package pipeline orchestrates the end-to-end run for one uploaded document:
// extraction, fingerprinting, cached artifact generation, and the per-session
// result store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"docsimplifier/internal/cache"
	"docsimplifier/internal/fingerprint"
	"docsimplifier/internal/gemini"
	"docsimplifier/internal/models"
)

// ErrValidation flags missing caller input; nothing downstream has run when it
// is returned.
var ErrValidation = errors.New("invalid input")

// Extractor yields plain text from an uploaded document.
type Extractor interface {
	Extract(data []byte, pageCeiling, textByteCeiling int) (*models.ExtractedText, error)
}

// Gateway produces one artifact per operation. Implementations never consult
// the cache and never retry.
type Gateway interface {
	Invoke(ctx context.Context, op gemini.Operation, text, credential string) (string, error)
}

// Config carries the extraction ceilings.
type Config struct {
	PageCeiling     int
	TextByteCeiling int
}

// Pipeline wires the extractor, the gateway, and the process-wide artifact
// cache. One instance serves all sessions.
type Pipeline struct {
	extractor Extractor
	gateway   Gateway
	artifacts *cache.ArtifactCache
	cfg       Config
}

// New creates a Pipeline. The cache must be the injected process-wide
// instance, not constructed here, so tests can build isolated ones.
func New(extractor Extractor, gateway Gateway, artifacts *cache.ArtifactCache, cfg Config) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		gateway:   gateway,
		artifacts: artifacts,
		cfg:       cfg,
	}
}

// Session owns the last completed result for one interactive user. A UI
// re-render is a pure read of Result; only Process replaces the stored value.
// Sessions are never shared across users.
type Session struct {
	mu     sync.Mutex
	result *models.SessionResult
}

// NewSession creates an empty session.
func NewSession() *Session { return &Session{} }

// Result returns the stored result, or nil when nothing has completed yet.
// Callers must treat the returned value as immutable.
func (s *Session) Result() *models.SessionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) completedFor(fp string) *models.SessionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result != nil && s.result.Completed && s.result.Fingerprint == fp {
		return s.result
	}
	return nil
}

func (s *Session) store(result *models.SessionResult) {
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
}

// Process runs the full pipeline for document under the session's result
// store. Both artifacts are produced, through the cache where possible; a
// repeat upload of the already-completed document short-circuits to the stored
// result without any cache lookups.
func (p *Pipeline) Process(ctx context.Context, sess *Session, document []byte, credential string) (*models.SessionResult, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, fmt.Errorf("%w: credential must not be empty", ErrValidation)
	}
	if len(document) == 0 {
		return nil, fmt.Errorf("%w: document must not be empty", ErrValidation)
	}

	extracted, err := p.extractor.Extract(document, p.cfg.PageCeiling, p.cfg.TextByteCeiling)
	if err != nil {
		return nil, err
	}

	fp := fingerprint.Sum([]byte(extracted.Text))
	logCtx := slog.With("fingerprint", fp[:12], "totalPages", extracted.TotalPages)

	if prev := sess.completedFor(fp); prev != nil {
		logCtx.Info("Duplicate upload detected; reusing session result.")
		return prev, nil
	}

	var summary, keyPoints string
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		summary, err = p.artifact(gctx, gemini.OperationSummarize, fp, extracted.Text, credential)
		return err
	})
	eg.Go(func() error {
		var err error
		keyPoints, err = p.artifact(gctx, gemini.OperationKeyPoints, fp, extracted.Text, credential)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &models.SessionResult{
		Fingerprint: fp,
		Extracted:   extracted,
		Summary:     summary,
		KeyPoints:   keyPoints,
		Completed:   true,
	}
	sess.store(result)
	logCtx.Info("Pipeline complete.",
		"pagesProcessed", extracted.PagesProcessed,
		"truncated", extracted.Truncated)
	return result, nil
}

func (p *Pipeline) artifact(ctx context.Context, op gemini.Operation, fp, text, credential string) (string, error) {
	return p.artifacts.GetOrCompute(string(op), fp, func() (string, error) {
		return p.gateway.Invoke(ctx, op, text, credential)
	})
}

// ClearSession drops the session's stored result and purges that document's
// cache entries across all operation kinds.
func (p *Pipeline) ClearSession(sess *Session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.result != nil {
		p.artifacts.ClearFingerprint(sess.result.Fingerprint)
		sess.result = nil
	}
}

// ClearCache purges every cached artifact.
func (p *Pipeline) ClearCache() {
	p.artifacts.Clear()
}
