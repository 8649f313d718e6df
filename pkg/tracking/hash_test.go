package tracking

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func md5Hex(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

func TestHashText(t *testing.T) {
	tests := []struct {
		name    string
		snippet string
		want    string
	}{
		{name: "plain", snippet: "foo()", want: md5Hex("foo()")},
		{name: "whitespace removed", snippet: " if (a == b) {\n\treturn;\r\n}", want: md5Hex("if(a==b){return;}")},
		{name: "empty", snippet: "", want: md5Hex("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HashText(tt.snippet))
		})
	}

	assert.Equal(t, HashText("a = b"), HashText("a=b"), "reformatting must not change the signature")
}

func TestSource_LineHash(t *testing.T) {
	src := NewSource("line 1\r\nline 2\nline 3")
	require.Equal(t, 3, src.LineCount())
	assert.Equal(t, 6, src.LineLength(2))
	assert.Equal(t, -1, src.LineLength(4))

	tests := []struct {
		name string
		line int
		want string
	}{
		{name: "first line", line: 1, want: md5Hex("line1")},
		{name: "crlf stripped", line: 2, want: md5Hex("line2")},
		{name: "last line", line: 3, want: md5Hex("line3")},
		{name: "zero line", line: 0, want: ""},
		{name: "negative line", line: -2, want: ""},
		{name: "beyond end", line: 4, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, src.LineHash(tt.line))
		})
	}
}

func TestSource_RangeHash(t *testing.T) {
	src := NewSource("func main() {\n\tfmt.Println(\"héllo\")\n}")

	tests := []struct {
		name string
		tr   TextRange
		want string
	}{
		{
			name: "single line",
			tr:   TextRange{StartLine: 1, StartLineOffset: 5, EndLine: 1, EndLineOffset: 9},
			want: md5Hex("main"),
		},
		{
			name: "offsets count characters",
			tr:   TextRange{StartLine: 2, StartLineOffset: 14, EndLine: 2, EndLineOffset: 19},
			want: md5Hex("héllo"),
		},
		{
			name: "multi line",
			tr:   TextRange{StartLine: 1, StartLineOffset: 12, EndLine: 3, EndLineOffset: 1},
			want: md5Hex("{fmt.Println(\"héllo\")}"),
		},
		{
			name: "empty range",
			tr:   TextRange{StartLine: 1, StartLineOffset: 3, EndLine: 1, EndLineOffset: 3},
			want: md5Hex(""),
		},
		{
			name: "end before start",
			tr:   TextRange{StartLine: 2, StartLineOffset: 0, EndLine: 1, EndLineOffset: 3},
			want: "",
		},
		{
			name: "offset beyond line",
			tr:   TextRange{StartLine: 3, StartLineOffset: 0, EndLine: 3, EndLineOffset: 5},
			want: "",
		},
		{
			name: "line beyond file",
			tr:   TextRange{StartLine: 3, StartLineOffset: 0, EndLine: 4, EndLineOffset: 0},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, src.RangeHash(tt.tr))
		})
	}
}

func TestLoadSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	src, err := LoadSource(path)
	require.NoError(t, err)
	assert.Equal(t, md5Hex("packagemain"), src.LineHash(1))

	_, err = LoadSource(filepath.Join(dir, "missing.go"))
	assert.Error(t, err)
}
