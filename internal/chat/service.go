package chat

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/thywilljoshua/pdf-chat/internal/ai"
	"github.com/thywilljoshua/pdf-chat/internal/pdfinfo"
)

// FileBackend is the subset of ai.FileAPI the service needs.
type FileBackend interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	GenerateFromFile(ctx context.Context, fileURI, prompt string) (string, error)
}

type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

type UploadResult struct {
	FileURI string `json:"fileUri"`
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Pages   int    `json:"pages"`
}

type Service struct {
	files  FileBackend
	asker  ai.Asker
	ref    Reference
	canned CannedReplies
	log    *slog.Logger
}

type Option func(*Service)

func WithAsker(a ai.Asker) Option {
	return func(s *Service) {
		if a != nil {
			s.asker = a
		}
	}
}

func WithCannedReplies(c CannedReplies) Option {
	return func(s *Service) { s.canned = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(files FileBackend, opts ...Option) (*Service, error) {
	if files == nil {
		return nil, errors.New("file backend is required")
	}
	s := &Service{files: files, asker: ai.Noop{}, log: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Upload validates u, sends it to Gemini and stores the returned URI,
// replacing any previous one.
func (s *Service) Upload(ctx context.Context, u Upload) (UploadResult, error) {
	if len(u.Data) == 0 {
		return UploadResult{}, ai.InvalidInput("upload", "PDF file is empty")
	}
	mt, _, err := mime.ParseMediaType(u.ContentType)
	if err != nil || mt != ai.PDFMimeType {
		return UploadResult{}, ai.InvalidInput("upload", fmt.Sprintf("unsupported content type %q, only %s is accepted", u.ContentType, ai.PDFMimeType))
	}

	uri, err := s.files.Upload(ctx, u.Name, u.Data)
	if err != nil {
		s.log.WarnContext(ctx, "pdf upload failed", "name", u.Name, "kind", ai.KindOf(err).String(), "error", err)
		return UploadResult{}, err
	}
	s.ref.Set(uri)

	res := UploadResult{FileURI: uri, Name: u.Name, Size: len(u.Data), Pages: pdfinfo.PageCount(u.Data)}
	s.log.InfoContext(ctx, "pdf uploaded", "name", res.Name, "bytes", res.Size, "pages", res.Pages, "uri", uri)
	return res, nil
}

// UploadPath uploads the PDF stored at path on the local disk.
func (s *Service) UploadPath(ctx context.Context, path string) (UploadResult, error) {
	const op = "upload"
	if strings.TrimSpace(path) == "" {
		return UploadResult{}, ai.InvalidInput(op, "no PDF path configured")
	}
	st, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return UploadResult{}, ai.InvalidInput(op, "PDF file not found at: "+path)
		}
		return UploadResult{}, ai.InvalidInput(op, "PDF file is not readable: "+path)
	}
	if st.IsDir() {
		return UploadResult{}, ai.InvalidInput(op, "PDF path is a directory: "+path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return UploadResult{}, ai.InvalidInput(op, "PDF file is not readable: "+path)
	}
	if len(data) == 0 {
		return UploadResult{}, ai.InvalidInput(op, "PDF file is empty: "+path)
	}
	return s.Upload(ctx, Upload{Name: filepath.Base(path), ContentType: ai.PDFMimeType, Data: data})
}

// Generate answers prompt against the stored PDF.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	uri, ok := s.ref.Get()
	if !ok {
		return "", ai.ErrNoFile
	}
	if reply, ok := s.canned.Match(prompt); ok {
		s.log.DebugContext(ctx, "canned reply", "prompt", prompt)
		return reply, nil
	}
	text, err := s.files.GenerateFromFile(ctx, uri, prompt)
	if err != nil {
		s.log.WarnContext(ctx, "generate failed", "kind", ai.KindOf(err).String(), "error", err)
		return "", err
	}
	return text, nil
}

// Ask sends prompt straight to the model without the stored PDF.
func (s *Service) Ask(ctx context.Context, prompt string) (string, error) {
	return s.asker.Ask(ctx, prompt)
}

func (s *Service) Clear() {
	s.ref.Clear()
	s.log.Info("stored pdf reference cleared")
}

// Status reports the stored file URI, if any.
func (s *Service) Status() (string, bool) {
	return s.ref.Get()
}
