package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/eduquiz/internal/errs"
)

type call struct {
	name string
	args []string
}

// fakeRunner answers tool calls from a table keyed by tool name.
type fakeRunner struct {
	calls   []call
	outputs map[string]string
	errs    map[string]error
	// pages is how many images a pdftoppm call writes.
	pages int
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	if name == "pdftoppm" {
		prefix := args[len(args)-1]
		for i := 1; i <= f.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
				return nil, err
			}
		}
	}
	return []byte(f.outputs[name]), nil
}

func (f *fakeRunner) called(name string) []call {
	var out []call
	for _, c := range f.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

func TestPDF_TextLayer(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"pdftotext": "  Chapter 1\n\nCells   are\tsmall.\f"}}
	x := New(nil, WithRunner(r))

	doc, err := x.PDF(context.Background(), "/tmp/bio.pdf", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Chapter 1 Cells are small.", doc.Text)
	assert.Equal(t, "bio.pdf", doc.Name)
	assert.False(t, doc.OCR)

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"-enc", "UTF-8", "-q", "-upw", "secret", "/tmp/bio.pdf", "-"}, r.calls[0].args)
}

func TestPDF_FallsBackToOCR(t *testing.T) {
	r := &fakeRunner{
		outputs: map[string]string{"pdftotext": " \n", "tesseract": "Quang hợp\n"},
		pages:   3,
	}
	x := New(nil, WithRunner(r))

	doc, err := x.PDF(context.Background(), "/tmp/scan.pdf", "")
	require.NoError(t, err)
	assert.True(t, doc.OCR)
	assert.Equal(t, "Quang hợp Quang hợp Quang hợp", doc.Text)

	render := r.called("pdftoppm")
	require.Len(t, render, 1)
	assert.True(t, slices.Contains(render[0].args, "-l"))
	assert.Equal(t, "3", render[0].args[slices.Index(render[0].args, "-l")+1])
	assert.Len(t, r.called("tesseract"), 3)
	assert.Equal(t, "vie+eng", r.called("tesseract")[0].args[3])
}

func TestPDF_Errors(t *testing.T) {
	notFound := &ToolError{Tool: "pdftotext", Err: exec.ErrNotFound}
	failed := &ToolError{Tool: "pdftotext", Err: errors.New("exit status 1")}

	tests := []struct {
		name string
		r    *fakeRunner
		want Kind
	}{
		{
			name: "missing pdftotext",
			r:    &fakeRunner{errs: map[string]error{"pdftotext": notFound}},
			want: KindToolMissing,
		},
		{
			name: "password",
			r: &fakeRunner{errs: map[string]error{
				"pdftotext": failed,
				"pdfinfo":   &ToolError{Tool: "pdfinfo", Stderr: "Command Line Error: Incorrect password", Err: errors.New("exit status 1")},
			}},
			want: KindPasswordRequired,
		},
		{
			name: "corrupt",
			r: &fakeRunner{errs: map[string]error{
				"pdftotext": failed,
				"pdfinfo":   &ToolError{Tool: "pdfinfo", Stderr: "Syntax Error: Couldn't find trailer dictionary", Err: errors.New("exit status 1")},
			}},
			want: KindInvalidDocument,
		},
		{
			name: "empty after OCR",
			r:    &fakeRunner{outputs: map[string]string{"pdftotext": "", "tesseract": "  "}, pages: 1},
			want: KindEmpty,
		},
		{
			name: "missing tesseract",
			r: &fakeRunner{
				outputs: map[string]string{"pdftotext": ""},
				errs:    map[string]error{"tesseract": &ToolError{Tool: "tesseract", Err: exec.ErrNotFound}},
				pages:   1,
			},
			want: KindToolMissing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(nil, WithRunner(tt.r)).PDF(context.Background(), "/tmp/x.pdf", "")
			var xe *ExtractError
			require.ErrorAs(t, err, &xe)
			assert.Equal(t, tt.want, xe.Kind)
		})
	}
}

func TestImage(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{"tesseract": "Hello\nworld\n"}}
	doc, err := New(nil, WithRunner(r), WithLanguage("eng")).Image(context.Background(), "/tmp/board.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", doc.Text)
	assert.Equal(t, []string{"/tmp/board.jpg", "stdout", "-l", "eng"}, r.calls[0].args)
}

func TestText(t *testing.T) {
	dir := t.TempDir()

	utf8 := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(utf8, []byte("\xef\xbb\xbfPhotosynthesis\nuses light"), 0o644))

	// "Hi" in UTF-16LE with a byte order mark.
	utf16 := filepath.Join(dir, "wide.txt")
	require.NoError(t, os.WriteFile(utf16, []byte{0xff, 0xfe, 'H', 0, 'i', 0}, 0o644))

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte(" \n "), 0o644))

	x := New(nil)
	doc, err := x.File(context.Background(), utf8, "")
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis uses light", doc.Text)

	doc, err = x.File(context.Background(), utf16, "")
	require.NoError(t, err)
	assert.Equal(t, "Hi", doc.Text)

	_, err = x.File(context.Background(), empty, "")
	var xe *ExtractError
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, KindEmpty, xe.Kind)
}

func TestFile_UnsupportedType(t *testing.T) {
	_, err := New(nil).File(context.Background(), "slides.pptx", "")
	var xe *ExtractError
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, KindInvalidDocument, xe.Kind)
	assert.True(t, strings.Contains(err.Error(), ".pptx"))
}

func TestFile_FailuresAreProviderErrors(t *testing.T) {
	r := &fakeRunner{errs: map[string]error{
		"pdftotext": &ToolError{Tool: "pdftotext", Stderr: "Command Line Error: Incorrect password", Err: errors.New("exit status 1")},
		"pdfinfo":   &ToolError{Tool: "pdfinfo", Stderr: "Command Line Error: Incorrect password", Err: errors.New("exit status 1")},
	}}
	_, err := New(nil, WithRunner(r)).File(context.Background(), "/tmp/locked.pdf", "")

	prov, ok := errs.AsProvider(err)
	require.True(t, ok, "got %T", err)
	assert.Equal(t, errs.ProviderCredential, prov.Kind)
	assert.True(t, errs.IsRecoverable(err))

	var xe *ExtractError
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, KindPasswordRequired, xe.Kind)

	_, err = New(nil).File(context.Background(), "slides.pptx", "")
	prov, ok = errs.AsProvider(err)
	require.True(t, ok)
	assert.Equal(t, errs.ProviderMalformed, prov.Kind)
}
