package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
	PDFMimeType    = "application/pdf"

	// NoTextFound is returned in place of generated text when the response
	// carries no text fragments.
	NoTextFound = "No text found in response."
)

// FileAPI talks to the Gemini Files and generateContent REST endpoints
// directly so the multipart and JSON bodies stay under our control.
type FileAPI struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

type FileAPIOption func(*FileAPI)

func WithBaseURL(u string) FileAPIOption {
	return func(f *FileAPI) {
		if u != "" {
			f.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(c *http.Client) FileAPIOption {
	return func(f *FileAPI) {
		if c != nil {
			f.http = c
		}
	}
}

func WithLogger(l *slog.Logger) FileAPIOption {
	return func(f *FileAPI) {
		if l != nil {
			f.log = l
		}
	}
}

func NewFileAPI(apiKey, model string, opts ...FileAPIOption) (*FileAPI, error) {
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	f := &FileAPI{
		apiKey:  apiKey,
		model:   modelPath(model),
		baseURL: DefaultBaseURL,
		http:    http.DefaultClient,
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// modelPath turns "gemini-2.5-flash" into "models/gemini-2.5-flash".
func modelPath(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	if strings.HasPrefix(model, "models/") || strings.HasPrefix(model, "tunedModels/") {
		return model
	}
	return "models/" + model
}

func (f *FileAPI) Model() string { return f.model }

// newRequest builds a POST to path. The API key travels in a header, never in the URL.
func (f *FileAPI) newRequest(ctx context.Context, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-goog-api-key", f.apiKey)
	return req, nil
}

type uploadResponse struct {
	File *struct {
		Name string          `json:"name"`
		URI  json.RawMessage `json:"uri"`
	} `json:"file"`
}

// Upload stores data as a PDF named name and returns the file URI.
func (f *FileAPI) Upload(ctx context.Context, name string, data []byte) (string, error) {
	const op = "upload"
	if len(data) == 0 {
		return "", newError(KindInvalidInput, op, "PDF file is empty", nil)
	}
	if name == "" {
		name = "document.pdf"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(name)))
	h.Set("Content-Type", PDFMimeType)
	pw, err := mw.CreatePart(h)
	if err != nil {
		return "", newError(KindInvalidInput, op, "build multipart body", err)
	}
	if _, err := pw.Write(data); err != nil {
		return "", newError(KindInvalidInput, op, "build multipart body", err)
	}
	if err := mw.Close(); err != nil {
		return "", newError(KindInvalidInput, op, "build multipart body", err)
	}

	req, err := f.newRequest(ctx, "/upload/v1beta/files", &body)
	if err != nil {
		return "", newError(KindTransport, op, "build request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, raw, err := f.do(req)
	if err != nil {
		return "", newError(KindTransport, op, "failed to upload PDF to Gemini API", err)
	}
	f.log.InfoContext(ctx, "upload response", "status", status, "bytes", len(data), "filename", name)
	f.log.DebugContext(ctx, "upload response body", "body", string(raw))

	if status != http.StatusOK {
		return "", &Error{Kind: KindStatus, Op: op, Msg: "failed to upload file", Status: status, Body: string(raw)}
	}

	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &Error{Kind: KindParse, Op: op, Msg: "failed to parse response JSON", Body: string(raw), Err: err}
	}
	var uri string
	if out.File == nil || len(out.File.URI) == 0 || json.Unmarshal(out.File.URI, &uri) != nil || uri == "" {
		return "", &Error{Kind: KindParse, Op: op, Msg: "file URI not found in response", Body: string(raw)}
	}
	return uri, nil
}

type fileData struct {
	FileURI  string `json:"fileUri"`
	MIMEType string `json:"mimeType"`
}

type part struct {
	FileData *fileData `json:"fileData,omitempty"`
	Text     *string   `json:"text,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateFromFile asks the model about the previously uploaded file at fileURI.
func (f *FileAPI) GenerateFromFile(ctx context.Context, fileURI, prompt string) (string, error) {
	const op = "generate"
	if fileURI == "" {
		return "", ErrNoFile
	}

	payload := generateRequest{Contents: []content{{Parts: []part{
		{FileData: &fileData{FileURI: fileURI, MIMEType: PDFMimeType}},
		{Text: &prompt},
	}}}}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", newError(KindInvalidInput, op, "encode request", err)
	}

	req, err := f.newRequest(ctx, "/v1beta/"+f.model+":generateContent", bytes.NewReader(b))
	if err != nil {
		return "", newError(KindTransport, op, "build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, raw, err := f.do(req)
	if err != nil {
		return "", newError(KindTransport, op, "failed to generate content from Gemini API", err)
	}
	f.log.InfoContext(ctx, "generate content response", "status", status, "model", f.model)
	f.log.DebugContext(ctx, "generate content response body", "body", string(raw))

	if status != http.StatusOK {
		return "", &Error{Kind: KindStatus, Op: op, Msg: "failed to generate content", Status: status, Body: string(raw)}
	}
	return extractText(raw)
}

// extractText joins the text fragments of the first candidate.
func extractText(raw []byte) (string, error) {
	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", &Error{Kind: KindParse, Op: "generate", Msg: "failed to parse content response JSON", Body: string(raw), Err: err}
	}
	if len(out.Candidates) == 0 {
		return NoTextFound, nil
	}
	var texts []string
	for _, p := range out.Candidates[0].Content.Parts {
		if t := strings.TrimSpace(p.Text); t != "" {
			texts = append(texts, t)
		}
	}
	if len(texts) == 0 {
		return NoTextFound, nil
	}
	return strings.Join(texts, " "), nil
}

func (f *FileAPI) do(req *http.Request) (int, []byte, error) {
	resp, err := f.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, raw, nil
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
