package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	portssvc "github.com/SscSPs/finance_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/finance_ledger_app/internal/dto"
	"github.com/SscSPs/finance_ledger_app/internal/middleware"
	"github.com/SscSPs/finance_ledger_app/internal/platform/analytics"
	"github.com/gin-gonic/gin"
)

// statementUploadForm is the multipart form of a statement upload.
type statementUploadForm struct {
	BankAccountID string `form:"bankAccountID" binding:"required"`
	Format        string `form:"format"`
}

// statementHandler handles bank statement uploads.
type statementHandler struct {
	statementService portssvc.StatementSvcFacade
	posthogClient    *analytics.PosthogClient
	maxUploadBytes   int64
}

func newStatementHandler(ss portssvc.StatementSvcFacade, posthogClient *analytics.PosthogClient, maxUploadBytes int64) *statementHandler {
	return &statementHandler{
		statementService: ss,
		posthogClient:    posthogClient,
		maxUploadBytes:   maxUploadBytes,
	}
}

// registerStatementRoutes registers the upload and read routes. uploadLimit guards
// only the upload itself.
func registerStatementRoutes(rg *gin.RouterGroup, h *statementHandler, uploadLimit gin.HandlerFunc) {
	statements := rg.Group("/statements")
	{
		if uploadLimit != nil {
			statements.POST("", uploadLimit, h.upload)
		} else {
			statements.POST("", h.upload)
		}
		statements.GET("/:uploadID", h.getUpload)
		statements.GET("/:uploadID/lines", h.listLines)
	}
}

// upload godoc
// @Summary Upload a bank statement
// @Description Extracts text from a statement PDF, parses it with the selected bank format and stores every transaction line
// @Tags statements
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Statement PDF"
// @Param   bankAccountID formData string true "Bank account the statement belongs to"
// @Param   format formData string false "Statement format (auto, indonesian, english)"
// @Success 201 {object} dto.StatementUploadResponse
// @Failure 400 {object} dto.ErrorResponse "Missing file or bank account"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Statement already uploaded"
// @Failure 422 {object} dto.ErrorResponse "No transactions could be parsed"
// @Failure 429 {object} dto.ErrorResponse "Too many uploads"
// @Failure 500 {object} dto.ErrorResponse "Failed to ingest statement"
// @Security BearerAuth
// @Router /statements [post]
func (h *statementHandler) upload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var form statementUploadForm
	if err := c.ShouldBind(&form); err != nil {
		logger.Warn("Failed to bind form for statement upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUser(c, logger)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		logger.Warn("Statement file missing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "A statement file is required"})
		return
	}
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: fmt.Sprintf("Statement exceeds %d bytes", h.maxUploadBytes)})
		return
	}

	document, err := readFormFile(fileHeader)
	if err != nil {
		logger.Error("Failed to read uploaded statement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read statement file"})
		return
	}

	logger = logger.With(slog.String("bank_account_id", form.BankAccountID), slog.String("file_name", fileHeader.Filename))
	upload, err := h.statementService.Upload(c.Request.Context(), dto.StatementUploadRequest{
		BankAccountID: form.BankAccountID,
		FileName:      fileHeader.Filename,
		Format:        form.Format,
		Document:      document,
		UploadedBy:    userID,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to ingest statement")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "statement_uploaded", map[string]any{
		"upload_number":     upload.UploadNumber,
		"format":            upload.Format,
		"transaction_count": upload.TransactionCount,
	})
	c.JSON(http.StatusCreated, dto.ToStatementUploadResponse(upload))
}

func readFormFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fileHeader.Filename, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// getUpload godoc
// @Summary Get a statement upload
// @Description Returns the header of an ingested statement
// @Tags statements
// @Produce  json
// @Param   uploadID path string true "Upload ID"
// @Success 200 {object} dto.StatementUploadResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Upload not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve statement"
// @Security BearerAuth
// @Router /statements/{uploadID} [get]
func (h *statementHandler) getUpload(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c, logger); !ok {
		return
	}

	upload, err := h.statementService.GetUpload(c.Request.Context(), c.Param("uploadID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve statement")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementUploadResponse(upload))
}

// listLines godoc
// @Summary List statement lines
// @Description Lists the parsed transaction lines of a statement with their reconciliation status
// @Tags statements
// @Produce  json
// @Param   uploadID path string true "Upload ID"
// @Success 200 {array} dto.StatementLineResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Upload not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list statement lines"
// @Security BearerAuth
// @Router /statements/{uploadID}/lines [get]
func (h *statementHandler) listLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c, logger); !ok {
		return
	}

	lines, err := h.statementService.ListLines(c.Request.Context(), c.Param("uploadID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list statement lines")
		return
	}
	c.JSON(http.StatusOK, dto.ToStatementLineResponses(lines))
}
