package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thywilljoshua/pdf-chat/internal/ai"
	"github.com/thywilljoshua/pdf-chat/internal/pdfinfo/pdftest"
)

func newTestService(t *testing.T, files *mockFiles, opts ...Option) *Service {
	t.Helper()
	s, err := NewService(files, opts...)
	require.NoError(t, err)
	return s
}

func TestNewService(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err, "nil backend must be rejected")
}

func TestService_Upload(t *testing.T) {
	ctx := context.Background()
	pdf := pdftest.Minimal(3)

	t.Run("stores the returned URI", func(t *testing.T) {
		files := &mockFiles{uploadURI: "X"}
		s := newTestService(t, files)

		res, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf", Data: pdf})

		require.NoError(t, err)
		assert.Equal(t, "X", res.FileURI)
		assert.Equal(t, 3, res.Pages)
		assert.Equal(t, len(pdf), res.Size)
		uri, ok := s.Status()
		assert.True(t, ok)
		assert.Equal(t, "X", uri)
	})

	t.Run("empty data fails before any network call", func(t *testing.T) {
		files := &mockFiles{uploadURI: "X"}
		s := newTestService(t, files)

		_, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf"})

		assert.Equal(t, ai.KindInvalidInput, ai.KindOf(err))
		assert.Zero(t, files.uploads)
		_, ok := s.Status()
		assert.False(t, ok)
	})

	t.Run("wrong content type is rejected", func(t *testing.T) {
		files := &mockFiles{uploadURI: "X"}
		s := newTestService(t, files)

		for _, ct := range []string{"", "text/plain", "application/octet-stream", "application/pdfx"} {
			_, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: ct, Data: pdf})
			assert.Equal(t, ai.KindInvalidInput, ai.KindOf(err), "content type %q", ct)
		}
		assert.Zero(t, files.uploads)
	})

	t.Run("content type parameters are ignored", func(t *testing.T) {
		files := &mockFiles{uploadURI: "X"}
		s := newTestService(t, files)

		_, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf; charset=binary", Data: pdf})
		assert.NoError(t, err)
	})

	t.Run("backend failure keeps the previous reference", func(t *testing.T) {
		files := &mockFiles{uploadURI: "first"}
		s := newTestService(t, files)
		_, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf", Data: pdf})
		require.NoError(t, err)

		files.uploadErr = &ai.Error{Kind: ai.KindStatus, Status: 500}
		_, err = s.Upload(ctx, Upload{Name: "b.pdf", ContentType: "application/pdf", Data: pdf})

		assert.Equal(t, ai.KindStatus, ai.KindOf(err))
		uri, _ := s.Status()
		assert.Equal(t, "first", uri)
	})

	t.Run("unparsable PDF bytes are still uploaded", func(t *testing.T) {
		files := &mockFiles{uploadURI: "X"}
		s := newTestService(t, files)

		res, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("not really a pdf")})

		require.NoError(t, err)
		assert.Zero(t, res.Pages)
	})
}

func TestService_UploadPath(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	good := filepath.Join(dir, "devunit1.pdf")
	require.NoError(t, os.WriteFile(good, pdftest.Minimal(1), 0o644))
	empty := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	t.Run("uploads with the file's base name", func(t *testing.T) {
		files := &mockFiles{uploadURI: "files/abc"}
		s := newTestService(t, files)

		res, err := s.UploadPath(ctx, good)

		require.NoError(t, err)
		assert.Equal(t, "files/abc", res.FileURI)
		assert.Equal(t, "devunit1.pdf", files.lastName)
	})

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.pdf")},
		{"empty file", empty},
		{"directory", dir},
		{"no path", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := &mockFiles{uploadURI: "X"}
			s := newTestService(t, files)

			_, err := s.UploadPath(ctx, tt.path)

			assert.Equal(t, ai.KindInvalidInput, ai.KindOf(err))
			assert.Zero(t, files.uploads)
		})
	}
}

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	pdf := pdftest.Minimal(1)

	t.Run("no upload means no file", func(t *testing.T) {
		files := &mockFiles{generateOut: "unused"}
		s := newTestService(t, files, WithCannedReplies(DefaultGreetings()))

		for _, p := range []string{"summarize", "hello", ""} {
			_, err := s.Generate(ctx, p)
			assert.ErrorIs(t, err, ai.ErrNoFile)
			assert.Equal(t, ai.KindNoFile, ai.KindOf(err))
		}
		assert.Zero(t, files.generates)
	})

	t.Run("uses the stored reference", func(t *testing.T) {
		files := &mockFiles{uploadURI: "X", generateOut: "a b"}
		s := newTestService(t, files)
		_, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf", Data: pdf})
		require.NoError(t, err)

		out, err := s.Generate(ctx, "summarize")

		require.NoError(t, err)
		assert.Equal(t, "a b", out)
		assert.Equal(t, "X", files.lastURI)
		assert.Equal(t, "summarize", files.lastPrompt)
	})

	t.Run("clear behaves like never uploaded", func(t *testing.T) {
		files := &mockFiles{uploadURI: "X", generateOut: "text"}
		s := newTestService(t, files)
		_, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf", Data: pdf})
		require.NoError(t, err)

		s.Clear()
		_, err = s.Generate(ctx, "summarize")

		assert.ErrorIs(t, err, ai.ErrNoFile)
		assert.Zero(t, files.generates)
	})

	t.Run("re-upload overwrites the reference", func(t *testing.T) {
		files := &mockFiles{uploadURI: "old", generateOut: "text"}
		s := newTestService(t, files)
		_, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf", Data: pdf})
		require.NoError(t, err)
		files.uploadURI = "new"
		_, err = s.Upload(ctx, Upload{Name: "b.pdf", ContentType: "application/pdf", Data: pdf})
		require.NoError(t, err)

		_, err = s.Generate(ctx, "q")

		require.NoError(t, err)
		assert.Equal(t, "new", files.lastURI)
	})

	t.Run("canned replies skip the backend", func(t *testing.T) {
		files := &mockFiles{uploadURI: "X", generateOut: "model"}
		s := newTestService(t, files, WithCannedReplies(DefaultGreetings()))
		_, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf", Data: pdf})
		require.NoError(t, err)

		out, err := s.Generate(ctx, "Hello there")
		require.NoError(t, err)
		assert.Contains(t, out, "Hello!")
		assert.Zero(t, files.generates)

		out, err = s.Generate(ctx, "history of the document")
		require.NoError(t, err)
		assert.Equal(t, "model", out)
		assert.Equal(t, 1, files.generates)
	})

	t.Run("backend errors pass through with their kind", func(t *testing.T) {
		files := &mockFiles{uploadURI: "X", generateErr: &ai.Error{Kind: ai.KindTransport, Err: errors.New("dial tcp")}}
		s := newTestService(t, files)
		_, err := s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf", Data: pdf})
		require.NoError(t, err)

		_, err = s.Generate(ctx, "q")
		assert.Equal(t, ai.KindTransport, ai.KindOf(err))
	})
}

func TestService_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to the asker without a stored file", func(t *testing.T) {
		asker := &mockAsker{reply: "42"}
		s := newTestService(t, &mockFiles{}, WithAsker(asker))

		out, err := s.Ask(ctx, "meaning of life")

		require.NoError(t, err)
		assert.Equal(t, "42", out)
		assert.Equal(t, "meaning of life", asker.prompt)
	})

	t.Run("defaults to a noop asker that fails", func(t *testing.T) {
		s := newTestService(t, &mockFiles{})
		_, err := s.Ask(ctx, "q")
		assert.Error(t, err)
	})
}

func TestService_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	files := &mockFiles{uploadURI: "X", generateOut: "ok"}
	s := newTestService(t, files)
	pdf := pdftest.Minimal(1)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, _ = s.Upload(ctx, Upload{Name: "a.pdf", ContentType: "application/pdf", Data: pdf})
		}()
		go func() {
			defer wg.Done()
			_, err := s.Generate(ctx, "q")
			if err != nil {
				assert.ErrorIs(t, err, ai.ErrNoFile)
			}
		}()
		go func() {
			defer wg.Done()
			s.Clear()
		}()
	}
	wg.Wait()
}
