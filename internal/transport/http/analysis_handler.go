package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/attribute"

	"salesinsight/internal/config"
	"salesinsight/internal/dataprocessing"
	apierrors "salesinsight/internal/errors"
	"salesinsight/internal/infrastructure"
	"salesinsight/internal/middleware"
	"salesinsight/internal/services"
	api "salesinsight/pkg/contracts/api/v1"
	"salesinsight/pkg/contracts/domain"
)

// FilesField is the multipart field carrying the uploaded files
const FilesField = "files"

// AnalysisServiceInterface defines the analysis operations used by the handler
type AnalysisServiceInterface interface {
	Analyze(ctx context.Context, files []services.FileInput, topN int) (*domain.AnalysisResult, error)
}

// AnalysisHandler handles file upload analysis requests
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	cfg          config.AnalysisConfig
	validator    *middleware.Validator
	params       *middleware.QueryParamValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisServiceInterface, cfg config.AnalysisConfig, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *AnalysisHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	if cfg.MaxTopN <= 0 {
		cfg.MaxTopN = config.MaxTopN
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = config.DefaultMaxUploadBytes
	}

	return &AnalysisHandler{
		service:      service,
		cfg:          cfg,
		validator:    middleware.NewValidator(),
		params:       middleware.NewQueryParamValidator(logger, errorHandler),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "analysis")),
	}
}

// Analyze handles POST /analyze and POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	topN, ok := h.params.ValidateInt(w, r, "top_n", 0, h.cfg.MaxTopN, h.cfg.DefaultTopN)
	if !ok {
		return
	}

	headers := r.MultipartForm.File[FilesField]
	if len(headers) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoFiles)
		return
	}

	req := api.AnalyzeRequest{TopN: topN, MaxTopN: h.cfg.MaxTopN}
	for _, fh := range headers {
		req.Files = append(req.Files, api.UploadedFile{Name: fh.Filename, Size: fh.Size})
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	files, err := readUploads(headers)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	infrastructure.AddSpanEvent(ctx, "analysis.request",
		attribute.Int("files", len(files)),
		attribute.Int("top_n", topN))
	h.logger.InfoContext(ctx, "analysis request",
		slog.Int("files", len(files)),
		slog.Int("top_n", topN),
		slog.String("request_id", middleware.GetRequestID(ctx)))

	result, err := h.service.Analyze(ctx, files, topN)
	switch {
	case err == nil:
		render.JSON(w, r, result)
	case errors.Is(err, dataprocessing.ErrNoReadableData):
		render.JSON(w, r, domain.ErrorPayload{Error: domain.NoReadableDataMessage})
	case errors.Is(err, services.ErrNoFilesProvided):
		h.errorHandler.HandleError(w, r, apierrors.ErrNoFiles)
	case errors.Is(err, services.ErrTooManyFiles):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			apierrors.ErrTooManyFiles.StatusCode,
			apierrors.ErrTooManyFiles.ErrorCode,
			apierrors.ErrTooManyFiles.Message,
			err.Error(),
		))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// readUploads loads every part into memory, keeping the upload order
func readUploads(headers []*multipart.FileHeader) ([]services.FileInput, error) {
	files := make([]services.FileInput, 0, len(headers))
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", fh.Filename, err)
		}
		files = append(files, services.FileInput{Name: fh.Filename, Data: data})
	}
	return files, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
