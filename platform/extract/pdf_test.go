package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRunner is a test double for CommandRunner, returning canned output
// per command name.
type mockRunner struct {
	outputs map[string][]byte
	errs    map[string]error
	calls   []string
}

func (m *mockRunner) Run(_ context.Context, name string, _ ...string) ([]byte, error) {
	m.calls = append(m.calls, name)
	if err, ok := m.errs[name]; ok {
		return nil, err
	}
	return m.outputs[name], nil
}

func TestExtract(t *testing.T) {
	runner := &mockRunner{outputs: map[string][]byte{
		"pdftotext": []byte("Attention Is All You Need\n\nAbstract ..."),
		"pdfinfo":   []byte("Title: x\nPages:          11\nEncrypted: no\n"),
	}}
	e := NewWithRunner(runner)

	text, pages, err := e.Extract(context.Background(), []byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Contains(t, text, "Attention Is All You Need")
	assert.Equal(t, 11, pages)
	assert.Equal(t, []string{"pdftotext", "pdfinfo"}, runner.calls)
}

func TestExtractCorruptPDF(t *testing.T) {
	runner := &mockRunner{errs: map[string]error{
		"pdftotext": errors.New("exit status 1"),
	}}
	e := NewWithRunner(runner)

	_, _, err := e.Extract(context.Background(), []byte("not a pdf"))
	assert.ErrorIs(t, err, ErrInvalidPDF)
}

func TestExtractPageCountUnavailable(t *testing.T) {
	runner := &mockRunner{
		outputs: map[string][]byte{"pdftotext": []byte("some text")},
		errs:    map[string]error{"pdfinfo": errors.New("not installed")},
	}
	e := NewWithRunner(runner)

	text, pages, err := e.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "some text", text)
	assert.Equal(t, 0, pages)
}

func TestFirstPage(t *testing.T) {
	runner := &mockRunner{outputs: map[string][]byte{
		"pdftotext": []byte("first page only"),
	}}
	e := NewWithRunner(runner)

	text, err := e.FirstPage(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "first page only", text)
}

func TestInstallInstructions(t *testing.T) {
	assert.Contains(t, InstallInstructions(), "poppler")
}
