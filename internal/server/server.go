package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thywilljoshua/pdf-chat/internal/ai"
	"github.com/thywilljoshua/pdf-chat/internal/chat"
)

// ChatService is implemented by *chat.Service.
type ChatService interface {
	Upload(ctx context.Context, u chat.Upload) (chat.UploadResult, error)
	UploadPath(ctx context.Context, path string) (chat.UploadResult, error)
	Generate(ctx context.Context, prompt string) (string, error)
	Ask(ctx context.Context, prompt string) (string, error)
	Clear()
	Status() (string, bool)
}

const askFailed = "Sorry, I couldn't generate a response right now."

type Options struct {
	PDFPath        string
	MaxUploadBytes int64
	Logger         *slog.Logger
}

type Handler struct {
	svc  ChatService
	opts Options
	log  *slog.Logger
}

func New(svc ChatService, opts Options) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("chat service is required")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, opts: opts, log: log}, nil
}

// Router wires the chat endpoints onto a fresh gin engine.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLog(), cors())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	g := r.Group("/chat")
	g.POST("/upload-pdf", h.uploadPDF)
	g.POST("/pdf-content", h.pdfContent)
	g.POST("/clear-pdf", h.clearPDF)
	g.POST("/ask", h.ask)
	g.GET("/status", h.status)
	return r
}

// Serve runs the router on addr until ctx is cancelled.
func (h *Handler) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	h.log.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (h *Handler) uploadPDF(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Request.ContentLength > h.opts.MaxUploadBytes {
		c.String(http.StatusRequestEntityTooLarge, "Error uploading PDF: file exceeds the %d byte limit", h.opts.MaxUploadBytes)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes)

	fh, err := c.FormFile("file")
	switch {
	case err == nil:
	case isTooLarge(err):
		c.String(http.StatusRequestEntityTooLarge, "Error uploading PDF: file exceeds the %d byte limit", h.opts.MaxUploadBytes)
		return
	case errors.Is(err, http.ErrMissingFile):
		c.String(http.StatusBadRequest, "Error uploading PDF: no file part named \"file\" in request")
		return
	case errors.Is(err, http.ErrNotMultipart):
		// Not a multipart request: fall back to the configured local PDF.
		if h.opts.PDFPath == "" {
			c.String(http.StatusBadRequest, "Error uploading PDF: no file part named \"file\" in request")
			return
		}
		res, err := h.svc.UploadPath(ctx, h.opts.PDFPath)
		if err != nil {
			h.fail(c, "Error uploading PDF", err)
			return
		}
		c.String(http.StatusOK, "PDF uploaded successfully. File URI: %s", res.FileURI)
		return
	default:
		c.String(http.StatusBadRequest, "Error uploading PDF: %v", err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.String(http.StatusBadRequest, "Error uploading PDF: %v", err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.String(http.StatusBadRequest, "Error uploading PDF: %v", err)
		return
	}

	res, err := h.svc.Upload(ctx, chat.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		h.fail(c, "Error uploading PDF", err)
		return
	}
	c.String(http.StatusOK, "PDF uploaded successfully. File URI: %s", res.FileURI)
}

func (h *Handler) pdfContent(c *gin.Context) {
	prompt, ok := promptParam(c)
	if !ok {
		c.String(http.StatusBadRequest, "Error generating content: prompt is required")
		return
	}
	out, err := h.svc.Generate(c.Request.Context(), prompt)
	if err != nil {
		h.fail(c, "Error generating content", err)
		return
	}
	c.String(http.StatusOK, out)
}

func (h *Handler) clearPDF(c *gin.Context) {
	h.svc.Clear()
	c.String(http.StatusOK, "Stored PDF cleared.")
}

func (h *Handler) ask(c *gin.Context) {
	prompt, ok := promptParam(c)
	if !ok {
		c.String(http.StatusBadRequest, "prompt is required")
		return
	}
	out, err := h.svc.Ask(c.Request.Context(), prompt)
	if err != nil {
		h.log.WarnContext(c.Request.Context(), "direct prompt failed", "kind", ai.KindOf(err).String(), "error", err)
		c.String(http.StatusBadGateway, askFailed)
		return
	}
	c.String(http.StatusOK, out)
}

func (h *Handler) status(c *gin.Context) {
	uri, ok := h.svc.Status()
	c.JSON(http.StatusOK, gin.H{"uploaded": ok, "fileUri": uri})
}

// fail maps an error kind onto an HTTP status and message.
func (h *Handler) fail(c *gin.Context, prefix string, err error) {
	code := http.StatusBadGateway
	msg := fmt.Sprintf("%s: %v", prefix, err)

	switch ai.KindOf(err) {
	case ai.KindInvalidInput:
		code = http.StatusBadRequest
	case ai.KindNoFile:
		code = http.StatusConflict
		msg += ". Call POST /chat/upload-pdf first."
	case ai.KindStatus:
		if ai.StatusOf(err) == http.StatusRequestEntityTooLarge {
			code = http.StatusRequestEntityTooLarge
			msg += ". The PDF is too large for the Gemini API, try a smaller file."
		}
	case ai.KindNotConfigured:
		code = http.StatusServiceUnavailable
	case ai.KindTransport, ai.KindParse:
	default:
		code = http.StatusInternalServerError
	}
	h.log.WarnContext(c.Request.Context(), "request failed", "path", c.FullPath(), "status", code, "error", err)
	c.String(code, msg)
}

func promptParam(c *gin.Context) (string, bool) {
	p := c.Query("prompt")
	if p == "" {
		p = c.PostForm("prompt")
	}
	return p, strings.TrimSpace(p) != ""
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	// mime/multipart doesn't always wrap the reader error.
	return strings.Contains(err.Error(), "request body too large")
}

func (h *Handler) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
