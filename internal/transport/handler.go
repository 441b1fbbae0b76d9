package transport

import (
	"io"
	"net/http"
	"time"

	"go-medscan/internal/client"
	"go-medscan/internal/config"
	apperrors "go-medscan/internal/errors"
	"go-medscan/internal/logger"
	"go-medscan/internal/orchestrator"
	"go-medscan/internal/progress"
	"go-medscan/internal/validation"
	"go-medscan/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse mirrors the backend's error body contract so local consumers
// only ever deal with one error shape
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewHandler builds the local serve-mode handler: a normalizing proxy that
// validates uploads, forwards them to the analysis service, and answers with
// the canonical result shape.
func NewHandler(c *client.Client, cfg *config.Config) http.Handler {
	r := gin.Default()

	validator := validation.NewUploadValidatorWithLimit(cfg.MaxUploadSize)

	// Leave room for multipart framing on top of the payload cap
	r.Use(requestSizeLimiter(cfg.MaxUploadSize + 1024*1024))

	r.GET("/health", healthCheck)
	r.POST("/api/upload-prescription/", uploadHandler(validator, c.UploadPrescription, models.PrescriptionAnalysis))
	r.POST("/api/upload-strip/", uploadHandler(validator, c.UploadStrip, models.StripAnalysis))
	r.POST("/api/process-prescription/", uploadHandler(validator, c.ProcessPrescription, models.PrescriptionAnalysis))
	r.POST("/api/process-strip/", uploadHandler(validator, c.ProcessStrip, models.StripAnalysis))
	r.POST("/api/add-reminder/", addReminder(c))
	r.GET("/api/dashboard/", dashboard(c))

	return r
}

func uploadHandler(validator *validation.UploadValidator, upload client.UploadFunc, operation models.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"operation": operation,
			"ip":        c.ClientIP(),
		}).Info("Processing upload request")

		req, err := uploadRequestFromForm(c, operation)
		if err != nil {
			respondError(c, apperrors.NewValidationError("No file selected", err))
			return
		}

		orch := orchestrator.New(validator, upload, progressLogger(operation))
		result, err := orch.Run(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"operation":          operation,
			"medicines":          len(result.Medicines),
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Upload request completed")

		c.JSON(http.StatusOK, result)
	}
}

func uploadRequestFromForm(c *gin.Context, operation models.Operation) (*models.UploadRequest, error) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &models.UploadRequest{
		Filename:         header.Filename,
		DeclaredMIMEType: header.Header.Get("Content-Type"),
		SizeBytes:        header.Size,
		Content:          content,
		Operation:        operation,
	}, nil
}

func addReminder(c *client.Client) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var req models.ReminderRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			respondError(ctx, apperrors.NewValidationError("Invalid reminder payload", err))
			return
		}
		if req.MedicineName == "" || req.RemindAt == "" {
			respondError(ctx, apperrors.NewValidationError("medicine_name and remind_at are required", nil))
			return
		}

		reminder, err := c.AddReminder(ctx.Request.Context(), req)
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"reminder": reminder})
	}
}

func dashboard(c *client.Client) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		summary, err := c.Dashboard(ctx.Request.Context())
		if err != nil {
			respondError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, summary)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// progressLogger surfaces phase changes into the structured log; the serve
// mode has no interactive consumer to re-render a bar
func progressLogger(operation models.Operation) progress.Reporter {
	return func(phase progress.Phase, percent int) {
		logger.WithFields(logrus.Fields{
			"operation": operation,
			"phase":     phase,
			"percent":   percent,
		}).Debug("Transfer progress")
	}
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, err error) {
	code := apperrors.GetStatusCode(err)
	opErr := apperrors.Classify(err)

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"kind":        opErr.Kind,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error: opErr.Message,
	})
}
