package tracking

import (
	"crypto/md5"
	"encoding/hex"
	"os"
	"strings"
	"unicode/utf8"
)

// HashText returns the content signature of a code snippet: the lowercase hex
// MD5 of the snippet with every ASCII whitespace character removed.
func HashText(snippet string) string {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			return -1
		}
		return r
	}, snippet)
	sum := md5.Sum([]byte(compact))
	return hex.EncodeToString(sum[:])
}

// Source holds the lines of one analysed file so signatures of several
// findings can be computed without re-reading it.
type Source struct {
	lines []string
}

// NewSource splits content into lines. "\r\n" line endings are accepted.
func NewSource(content string) *Source {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Source{lines: lines}
}

// LoadSource reads the file at path.
func LoadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewSource(string(data)), nil
}

// LineCount returns the number of lines of the source.
func (s *Source) LineCount() int {
	return len(s.lines)
}

// LineLength returns the number of characters of the 1-based line, -1 if it
// does not exist.
func (s *Source) LineLength(line int) int {
	if line < 1 || line > len(s.lines) {
		return -1
	}
	return utf8.RuneCountInString(s.lines[line-1])
}

// LineHash returns the signature of the 1-based line, "" if it does not exist.
func (s *Source) LineHash(line int) string {
	if line < 1 || line > len(s.lines) {
		return ""
	}
	return HashText(s.lines[line-1])
}

// Snippet returns the text covered by tr. Offsets count characters, not bytes.
func (s *Source) Snippet(tr TextRange) (string, bool) {
	if tr.StartLine < 1 || tr.EndLine > len(s.lines) || tr.EndLine < tr.StartLine {
		return "", false
	}
	if tr.StartLineOffset < 0 || tr.EndLineOffset < 0 {
		return "", false
	}
	if tr.StartLine == tr.EndLine {
		line := s.lines[tr.StartLine-1]
		if tr.EndLineOffset < tr.StartLineOffset || tr.EndLineOffset > utf8.RuneCountInString(line) {
			return "", false
		}
		return sliceRunes(line, tr.StartLineOffset, tr.EndLineOffset), true
	}

	first := s.lines[tr.StartLine-1]
	last := s.lines[tr.EndLine-1]
	if tr.StartLineOffset > utf8.RuneCountInString(first) || tr.EndLineOffset > utf8.RuneCountInString(last) {
		return "", false
	}
	var b strings.Builder
	b.WriteString(sliceRunes(first, tr.StartLineOffset, utf8.RuneCountInString(first)))
	for _, l := range s.lines[tr.StartLine : tr.EndLine-1] {
		b.WriteByte('\n')
		b.WriteString(l)
	}
	b.WriteByte('\n')
	b.WriteString(sliceRunes(last, 0, tr.EndLineOffset))
	return b.String(), true
}

// RangeHash returns the signature of the text covered by tr, "" when tr does
// not fit the source.
func (s *Source) RangeHash(tr TextRange) string {
	snippet, ok := s.Snippet(tr)
	if !ok {
		return ""
	}
	return HashText(snippet)
}

func sliceRunes(s string, from, to int) string {
	runes := []rune(s)
	return string(runes[from:to])
}
