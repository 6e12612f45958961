package parser

import (
	"path/filepath"
	"strings"

	"codegraph/pkg/types"
)

// Result contains all definitions extracted from one file.
type Result struct {
	Functions []types.FunctionEntry
	Classes   []types.ClassEntry
}

// Parser extracts structural definitions from source text.
type Parser struct{}

// New creates a new Parser instance.
func New() *Parser {
	return &Parser{}
}

// LanguageFor returns the language family for a file path based on its
// extension. The second return value is false for unsupported extensions.
func LanguageFor(path string) (types.Language, bool) {
	lang, ok := types.ExtensionLanguages[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// kind discriminates stack frames during traversal.
type defKind int

const (
	kindClass defKind = iota
	kindFunction
)

// frame is one open definition on the traversal stack.
type frame struct {
	kind    defKind
	name    string
	endLine int // 0-based, inclusive
	class   *types.ClassEntry
}

// Parse scans content and returns every function, method, and class
// definition found. filePath is recorded verbatim on each entry. Parse
// never fails; unrecognized constructs are simply not extracted.
func (p *Parser) Parse(content, filePath string, lang types.Language) *Result {
	lines := splitLines(content)
	res := &Result{}

	if lang.Style() == types.BlockIndent {
		p.parseIndent(lines, filePath, res)
	} else {
		p.parseBrace(lines, filePath, lang, res)
	}
	return res
}

// splitLines splits content into lines without dropping a trailing newline's
// empty segment ambiguity: a final "\n" does not produce a phantom line.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// pruneStack removes frames whose span ended before line i.
func pruneStack(stack []frame, i int) []frame {
	for len(stack) > 0 && stack[len(stack)-1].endLine < i {
		stack = stack[:len(stack)-1]
	}
	return stack
}

// enclosing returns the nearest enclosing class and function names on the
// stack, scanning innermost first.
func enclosing(stack []frame) (parentClass, parentFunction string, classFrame *frame) {
	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i].kind {
		case kindClass:
			if parentClass == "" {
				parentClass = stack[i].name
				classFrame = &stack[i]
			}
		case kindFunction:
			if parentFunction == "" {
				parentFunction = stack[i].name
			}
		}
	}
	return parentClass, parentFunction, classFrame
}

// bodyText assembles the raw source of a definition spanning lines
// start..end (0-based, inclusive), clipped to startCol on the first line.
func bodyText(lines []string, start, end, startCol int) string {
	if end >= len(lines) {
		end = len(lines) - 1
	}
	first := lines[start]
	if startCol > 0 && startCol < len(first) {
		first = first[startCol:]
	}
	if start == end {
		return first
	}
	parts := make([]string, 0, end-start+1)
	parts = append(parts, first)
	parts = append(parts, lines[start+1:end+1]...)
	return strings.Join(parts, "\n")
}
