// handlers.go - HTTP handlers for flare parsing and the advisory ranker

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tabsyhq/tabsy-api/configs"
	"github.com/tabsyhq/tabsy-api/internal/advisor"
	"github.com/tabsyhq/tabsy-api/internal/common"
	"github.com/tabsyhq/tabsy-api/internal/flare"
	"github.com/tabsyhq/tabsy-api/internal/ocr"
	"github.com/tabsyhq/tabsy-api/internal/storage"
)

// tempBoxPrefix marks a storage path's box segment as a preview upload
// rather than a durable box.
const tempBoxPrefix = "temp_"

// Server holds the wired dependencies for all HTTP handlers
type Server struct {
	Provider ocr.Provider
	Fallback ocr.Provider
	Ranker   *advisor.Ranker
	Boxes    storage.BoxStore
	Previews storage.PreviewStore
}

// NewServer creates a Server with the given dependencies
func NewServer(provider, fallback ocr.Provider, ranker *advisor.Ranker, boxes storage.BoxStore, previews storage.PreviewStore) *Server {
	return &Server{
		Provider: provider,
		Fallback: fallback,
		Ranker:   ranker,
		Boxes:    boxes,
		Previews: previews,
	}
}

// RegisterRoutes attaches all API routes to the router
func (s *Server) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	v1.POST("/flare/preview", s.PreviewHandler)
	v1.POST("/flare/finalize", s.FinalizeHandler)
	v1.POST("/advisor/ask", s.AskHandler)
}

// parseJob is the explicit request variant dispatched to the shared
// parse pipeline. The temp_ prefix is resolved into a variant at the
// edge; nothing downstream sniffs identifier strings.
type parseJob interface {
	jobName() string
}

type previewJob struct {
	previewID string
	imageRef  string
}

func (previewJob) jobName() string { return "preview" }

type finalizeJob struct {
	boxID    string
	imageRef string
}

func (finalizeJob) jobName() string { return "finalize" }

// PreviewRequest is the synchronous preview call body
type PreviewRequest struct {
	ImageURL  string `json:"imageUrl"`
	PreviewID string `json:"previewId"`
}

// FinalizeRequest is the image-arrival event body. Path looks like
// "boxes/<uid>/<boxId>/flare.jpg"; a boxId starting with temp_ makes
// this a preview upload.
type FinalizeRequest struct {
	Path     string `json:"path"`
	ImageURL string `json:"imageUrl"`
}

// AskRequest is the advisory call body
type AskRequest struct {
	Question string               `json:"question"`
	Boxes    []advisor.BoxSummary `json:"boxes"`
}

// PreviewHandler handles POST /api/v1/flare/preview.
// Authentication is checked before any OCR call is attempted.
func (s *Server) PreviewHandler(c *gin.Context) {
	userID, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody(ocr.CodeUnauthenticated, "Missing or malformed Authorization header"))
		return
	}

	reqCtx := common.NewRequestContext(userID)

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, errorBody(ocr.CodeInvalidArgument, "imageUrl is required"))
		return
	}
	if req.PreviewID == "" {
		req.PreviewID = tempBoxPrefix + reqCtx.RequestID
	}

	job := previewJob{previewID: req.PreviewID, imageRef: req.ImageURL}

	rawText, err := s.recognize(c.Request.Context(), job.imageRef, reqCtx)
	if err != nil {
		code := ocr.CallerCode(err)
		s.writePreviewError(c.Request.Context(), job.previewID, code, ocr.UserMessage(code), reqCtx)
		c.JSON(httpStatusForCode(code), errorBody(code, ocr.UserMessage(code)))
		return
	}

	// Empty recognized text surfaces to preview callers as an explicit
	// error, unlike the finalize path.
	if strings.TrimSpace(rawText) == "" {
		reqCtx.LogWarning("⚠️  OCR produced no text for preview %s", job.previewID)
		s.writePreviewError(c.Request.Context(), job.previewID, "empty-ocr", "No text was recognized in the image", reqCtx)
		c.JSON(http.StatusBadRequest, errorBody("empty-ocr", "No text was recognized in the image"))
		return
	}

	parsed := flare.Parse(rawText, true)
	parsedData := parsedDataFields(parsed)

	if err := s.Previews.WriteResult(c.Request.Context(), storage.PreviewResult{
		PreviewID:  job.previewID,
		Success:    true,
		ParsedData: parsedData,
	}); err != nil {
		reqCtx.LogWarning("⚠️  Failed to persist preview result: %v", err)
	}

	reqCtx.GetSummary()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"previewId":  job.previewID,
		"parsedData": parsedData,
		"request_id": reqCtx.RequestID,
	})
}

// FinalizeHandler handles POST /api/v1/flare/finalize. This is the
// image-arrival event path: the caller gets a 202 and the outcome is
// expressed through store writes only.
func (s *Server) FinalizeHandler(c *gin.Context) {
	reqCtx := common.NewRequestContext("storage-event")

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Path == "" || req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, errorBody(ocr.CodeInvalidArgument, "path and imageUrl are required"))
		return
	}

	job, err := jobForPath(req.Path, req.ImageURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(ocr.CodeInvalidArgument, err.Error()))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"accepted":   true,
		"mode":       job.jobName(),
		"request_id": reqCtx.RequestID,
	})

	// The 202 is already written; a client disconnect must not cancel
	// the in-flight parse job.
	s.runParseJob(context.WithoutCancel(c.Request.Context()), job, reqCtx)
	reqCtx.GetSummary()
}

// jobForPath resolves a storage path into an explicit parse job.
// Expected shape: boxes/<uid>/<boxId>/<file>.
func jobForPath(path, imageURL string) (parseJob, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 4 || segments[0] != "boxes" {
		return nil, fmt.Errorf("unrecognized storage path: %s", path)
	}

	boxID := segments[2]
	if strings.HasPrefix(boxID, tempBoxPrefix) {
		return previewJob{previewID: boxID, imageRef: imageURL}, nil
	}
	return finalizeJob{boxID: boxID, imageRef: imageURL}, nil
}

// runParseJob executes the shared OCR-and-parse pipeline for either
// job variant. All failures end in a store write or a log line.
func (s *Server) runParseJob(ctx context.Context, job parseJob, reqCtx *common.RequestContext) {
	switch j := job.(type) {
	case previewJob:
		rawText, err := s.recognize(ctx, j.imageRef, reqCtx)
		if err != nil {
			code := ocr.CallerCode(err)
			s.writePreviewError(ctx, j.previewID, code, ocr.UserMessage(code), reqCtx)
			return
		}
		if strings.TrimSpace(rawText) == "" {
			reqCtx.LogWarning("⚠️  OCR produced no text for preview %s", j.previewID)
			s.writePreviewError(ctx, j.previewID, "empty-ocr", "No text was recognized in the image", reqCtx)
			return
		}

		parsed := flare.Parse(rawText, true)
		if err := s.Previews.WriteResult(ctx, storage.PreviewResult{
			PreviewID:  j.previewID,
			Success:    true,
			ParsedData: parsedDataFields(parsed),
		}); err != nil {
			reqCtx.LogError("Failed to persist preview result %s: %v", j.previewID, err)
		}

	case finalizeJob:
		rawText, err := s.recognize(ctx, j.imageRef, reqCtx)
		if err != nil {
			if werr := s.Boxes.WriteParseError(ctx, j.boxID, ocr.UserMessage(ocr.CallerCode(err))); werr != nil {
				reqCtx.LogError("Failed to write parse error for box %s: %v", j.boxID, werr)
			}
			return
		}

		// Durable boxes drop empty-OCR events with only a log line;
		// no error marker is written.
		if strings.TrimSpace(rawText) == "" {
			reqCtx.LogWarning("⚠️  OCR produced no text for box %s, dropping event", j.boxID)
			return
		}

		parsed := flare.Parse(rawText, false)
		if err := s.Boxes.MergeParse(ctx, j.boxID, parsed); err != nil {
			reqCtx.LogError("Failed to merge parse into box %s: %v", j.boxID, err)
		}
	}
}

// AskHandler handles POST /api/v1/advisor/ask
func (s *Server) AskHandler(c *gin.Context) {
	userID, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody(ocr.CodeUnauthenticated, "Missing or malformed Authorization header"))
		return
	}

	reqCtx := common.NewRequestContext(userID)

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, errorBody(ocr.CodeInvalidArgument, "question is required"))
		return
	}

	resp := s.Ranker.Ask(c.Request.Context(), req.Question, req.Boxes, reqCtx)

	reqCtx.GetSummary()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"picks":      resp.Picks,
		"narrative":  resp.Narrative,
		"request_id": reqCtx.RequestID,
	})
}

// recognize runs OCR with the primary provider, falling back to the
// secondary vendor when one is configured and the primary fails.
func (s *Server) recognize(ctx context.Context, imageRef string, reqCtx *common.RequestContext) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(configs.OCR_TIMEOUT)*time.Second)
	defer cancel()

	rawText, _, err := s.Provider.RecognizeText(ctx, imageRef, reqCtx)
	if err == nil {
		return rawText, nil
	}

	if s.Fallback == nil {
		return "", err
	}

	reqCtx.LogWarning("⚠️  %s OCR failed (%v), falling back to %s", s.Provider.ProviderName(), err, s.Fallback.ProviderName())
	rawText, _, fallbackErr := s.Fallback.RecognizeText(ctx, imageRef, reqCtx)
	if fallbackErr != nil {
		// Surface the primary error; it carries the classification the
		// caller-facing code mapping needs.
		reqCtx.LogError("Fallback OCR also failed: %v", fallbackErr)
		return "", err
	}
	return rawText, nil
}

func (s *Server) writePreviewError(ctx context.Context, previewID, code, message string, reqCtx *common.RequestContext) {
	if err := s.Previews.WriteResult(ctx, storage.PreviewResult{
		PreviewID:    previewID,
		Success:      false,
		ErrorCode:    code,
		ErrorMessage: message,
	}); err != nil {
		reqCtx.LogError("Failed to persist preview error %s: %v", previewID, err)
	}
}

// parsedDataFields flattens a parse result into the preview payload
func parsedDataFields(parsed flare.ParsedFlareSheet) map[string]interface{} {
	return map[string]interface{}{
		"gameName":         parsed.GameName,
		"pricePerTicket":   parsed.PricePerTicket,
		"winningTickets":   parsed.WinningTickets(),
		"startingTickets":  parsed.TotalPrizeTokens,
		"prizeCounts":      parsed.PrizeCounts(),
		"totalPrizeTokens": parsed.TotalPrizeTokens,
	}
}

// bearerToken extracts the Bearer token from the Authorization header
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func errorBody(code, message string) gin.H {
	return gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// httpStatusForCode maps caller-facing error codes to HTTP statuses
func httpStatusForCode(code string) int {
	switch code {
	case ocr.CodeUnauthenticated:
		return http.StatusUnauthorized
	case ocr.CodeInvalidArgument:
		return http.StatusBadRequest
	case ocr.CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case ocr.CodePermissionDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
