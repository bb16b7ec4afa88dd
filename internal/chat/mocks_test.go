package chat

import (
	"context"
	"sync"
)

type mockFiles struct {
	mu          sync.Mutex
	uploadURI   string
	uploadErr   error
	generateOut string
	generateErr error

	uploads    int
	generates  int
	lastName   string
	lastURI    string
	lastPrompt string
}

func (m *mockFiles) Upload(ctx context.Context, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	m.lastName = name
	return m.uploadURI, m.uploadErr
}

func (m *mockFiles) GenerateFromFile(ctx context.Context, fileURI, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generates++
	m.lastURI = fileURI
	m.lastPrompt = prompt
	return m.generateOut, m.generateErr
}

type mockAsker struct {
	reply  string
	err    error
	prompt string
}

func (m *mockAsker) Ask(ctx context.Context, prompt string) (string, error) {
	m.prompt = prompt
	return m.reply, m.err
}
