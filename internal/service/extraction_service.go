package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"poextract/internal/config"
	"poextract/internal/domain"
	"poextract/internal/logger"
	"poextract/internal/merge"
	"poextract/internal/metrics"
	"poextract/internal/port"
	"poextract/internal/xlsxexport"
)

// Upload is one submitted PDF.
type Upload struct {
	FileName string
	// Size is the declared size; 0 means unknown.
	Size    int64
	Content io.Reader
}

// ProcessInput carries the three uploads of one run, keyed by document type.
type ProcessInput struct {
	Uploads map[domain.DocumentType]*Upload
}

// ProcessResult is everything one run produced.
type ProcessResult struct {
	RunID       uuid.UUID                                        `json:"run_id"`
	FileName    string                                           `json:"file_name"`
	Columns     []string                                         `json:"columns"`
	Rows        []*domain.Record                                 `json:"rows"`
	Summary     merge.Summary                                    `json:"summary"`
	Extractions map[domain.DocumentType]*domain.ExtractionResult `json:"extractions"`
	Workbook    []byte                                           `json:"-"`
}

// ExtractionService defines the PO/GRN/MRN processing contract.
type ExtractionService interface {
	Process(ctx context.Context, input ProcessInput) (*ProcessResult, error)
}

type extractionService struct {
	loader    port.TextLoader
	extractor port.DocumentExtractor
	cfg       *config.Config
	log       *zap.Logger
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	loader port.TextLoader,
	extractor port.DocumentExtractor,
	cfg *config.Config,
	log *zap.Logger,
) ExtractionService {
	return &extractionService{
		loader:    loader,
		extractor: extractor,
		cfg:       cfg,
		log:       logger.OrNop(log),
	}
}

// Process validates the uploads, extracts PO, GRN and MRN, merges them by
// position and renders the workbook. Any failure after the upload checks ends
// the run; nothing is retried or partially returned.
func (s *extractionService) Process(ctx context.Context, input ProcessInput) (*ProcessResult, error) {
	runID := uuid.New()
	log := s.log.With(zap.String("run_id", runID.String()))
	start := time.Now()

	result, err := s.process(ctx, runID, input, log)
	if err != nil {
		metrics.RunsTotal.WithLabelValues(string(domain.RunStatusFailed)).Inc()
		log.Error("run failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil, err
	}

	metrics.RunsTotal.WithLabelValues(string(domain.RunStatusSucceeded)).Inc()
	log.Info("run completed",
		zap.Int("rows", result.Summary.Rows),
		zap.Int("grn_dropped", result.Summary.GRNDropped),
		zap.Int("mrn_dropped", result.Summary.MRNDropped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (s *extractionService) process(ctx context.Context, runID uuid.UUID, input ProcessInput, log *zap.Logger) (*ProcessResult, error) {
	for _, docType := range domain.AllDocumentTypes() {
		if u := input.Uploads[docType]; u == nil || u.Content == nil {
			return nil, domain.ErrMissingUpload
		}
	}

	dir, err := os.MkdirTemp("", "poextract-"+runID.String()+"-")
	if err != nil {
		return nil, eris.Wrap(err, "service: create temp dir")
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Warn("removing temp dir", zap.String("dir", dir), zap.Error(err))
		}
	}()

	paths := make(map[domain.DocumentType]string, 3)
	for _, docType := range domain.AllDocumentTypes() {
		path, err := s.materialize(dir, docType, input.Uploads[docType])
		if err != nil {
			return nil, eris.Wrapf(err, "service: %s upload %q", docType, input.Uploads[docType].FileName)
		}
		paths[docType] = path
		log.Debug("upload stored",
			zap.String("doc_type", string(docType)),
			zap.String("file_name", input.Uploads[docType].FileName),
		)
	}

	extractions, err := s.extractAll(ctx, paths, log)
	if err != nil {
		return nil, err
	}

	rows, summary := merge.Positional(
		extractions[domain.DocumentTypePO],
		extractions[domain.DocumentTypeGRN],
		extractions[domain.DocumentTypeMRN],
	)
	metrics.MergedRows.Observe(float64(summary.Rows))
	if summary.GRNDropped > 0 {
		metrics.DroppedItems.WithLabelValues(string(domain.DocumentTypeGRN)).Add(float64(summary.GRNDropped))
		log.Warn("GRN items beyond PO item count dropped", zap.Int("dropped", summary.GRNDropped))
	}
	if summary.MRNDropped > 0 {
		metrics.DroppedItems.WithLabelValues(string(domain.DocumentTypeMRN)).Add(float64(summary.MRNDropped))
		log.Warn("MRN items beyond PO item count dropped", zap.Int("dropped", summary.MRNDropped))
	}

	workbook, err := xlsxexport.Render(rows, s.cfg.Export.SheetName)
	if err != nil {
		return nil, eris.Wrap(err, "service: render workbook")
	}

	return &ProcessResult{
		RunID:       runID,
		FileName:    xlsxexport.BuildFilename(s.cfg.Export.FileName),
		Columns:     xlsxexport.Columns(rows),
		Rows:        rows,
		Summary:     summary,
		Extractions: extractions,
		Workbook:    workbook,
	}, nil
}

// materialize checks one upload and copies it into dir.
func (s *extractionService) materialize(dir string, docType domain.DocumentType, u *Upload) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(u.FileName), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.Upload.MaxBytes()
	if maxBytes > 0 && u.Size > maxBytes {
		return "", domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	head := make([]byte, 512)
	n, err := io.ReadFull(u.Content, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", eris.Wrap(err, "service: read file header")
	}
	head = head[:n]
	if http.DetectContentType(head) != domain.AllowedFileTypes[fileType] {
		return "", domain.ErrUnsupportedFileType
	}

	path := filepath.Join(dir, strings.ToLower(string(docType))+".pdf")
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "service: create temp file")
	}
	defer f.Close()

	src := io.MultiReader(bytes.NewReader(head), u.Content)
	if maxBytes > 0 {
		src = io.LimitReader(src, maxBytes+1)
	}
	written, err := io.Copy(f, src)
	if err != nil {
		return "", eris.Wrap(err, "service: write temp file")
	}
	if maxBytes > 0 && written > maxBytes {
		return "", domain.ErrFileTooLarge
	}
	return path, nil
}

// extractAll runs PO, GRN and MRN in that order, or all at once when
// pipeline.concurrent_extraction is set. The first failure cancels the rest.
func (s *extractionService) extractAll(ctx context.Context, paths map[domain.DocumentType]string, log *zap.Logger) (map[domain.DocumentType]*domain.ExtractionResult, error) {
	types := domain.AllDocumentTypes()
	results := make([]*domain.ExtractionResult, len(types))

	if !s.cfg.Pipeline.ConcurrentExtraction {
		for i, docType := range types {
			res, err := s.extractOne(ctx, docType, paths[docType], log)
			if err != nil {
				return nil, err
			}
			results[i] = res
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, docType := range types {
			g.Go(func() error {
				res, err := s.extractOne(gctx, docType, paths[docType], log)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	out := make(map[domain.DocumentType]*domain.ExtractionResult, len(types))
	for i, docType := range types {
		out[docType] = results[i]
	}
	return out, nil
}

func (s *extractionService) extractOne(ctx context.Context, docType domain.DocumentType, path string, log *zap.Logger) (*domain.ExtractionResult, error) {
	text, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		return nil, eris.Wrapf(err, "service: load %s text", docType)
	}
	log.Info("pdf text loaded", zap.String("doc_type", string(docType)), zap.Int("text_chars", len(text)))

	res, err := s.extractor.Extract(ctx, docType, text)
	if err != nil {
		return nil, err
	}
	return res, nil
}
