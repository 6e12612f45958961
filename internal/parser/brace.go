package parser

import (
	"regexp"
	"strings"

	"codegraph/pkg/types"
)

var (
	// class NAME / struct NAME / interface NAME, optionally preceded by
	// modifiers (public final class Foo, export default class Bar).
	braceClassRe = regexp.MustCompile(`^\s*(?:[A-Za-z_$][\w$]*\s+)*(?:class|struct|interface|enum)\s+([A-Za-z_$][\w$]*)`)

	// function NAME( for JavaScript/TypeScript keyworded functions.
	funcKeywordRe = regexp.MustCompile(`\bfunction\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`)

	// const NAME = (...) => for arrow functions bound to a name.
	arrowFuncRe = regexp.MustCompile(`^\s*(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(?:async\s+)?\([^)]*\)\s*(?::[^=]+)?=>`)

	// NAME(...) { is the brace-family signature heuristic. Matched anywhere
	// in the line so single-line class bodies still yield their methods.
	// A `: ReturnType` annotation may sit between the parameter list and
	// the opening brace.
	braceSigRe = regexp.MustCompile(`([A-Za-z_$~][\w$]*)\s*\(([^()]*)\)\s*(?::\s*[\w<>\[\],.|&$\s]+)?(?:const\s*)?(?:noexcept\s*)?(?:throws\s+[\w.,\s]+)?\{`)

	// NAME(...) at end of line: signature whose opening brace sits on the
	// following line (Allman style).
	danglingSigRe = regexp.MustCompile(`^\s*(?:[\w<>\[\],.*&:$]+\s+)+\*?([A-Za-z_~][\w$]*)\s*\(([^()]*)\)\s*(?:const\s*)?(?:noexcept\s*)?\s*$`)
)

// sigKeywords are identifiers that look like NAME(...) { but open control
// blocks, not definitions.
var sigKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "else": true, "do": true, "new": true, "sizeof": true,
	"synchronized": true, "function": true, "try": true, "typeof": true,
	"delete": true, "throw": true, "await": true, "defer": true,
}

func (p *Parser) parseBrace(lines []string, filePath string, lang types.Language, res *Result) {
	var stack []frame
	var classes []*types.ClassEntry

	for i, line := range lines {
		stack = pruneStack(stack, i)

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") ||
			strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "*") ||
			strings.HasPrefix(trimmed, "#") {
			continue
		}

		if m := braceClassRe.FindStringSubmatchIndex(line); m != nil {
			name := line[m[2]:m[3]]
			end := braceBlockEnd(lines, i, 0)
			entry := &types.ClassEntry{
				Name:      name,
				FilePath:  filePath,
				Body:      bodyText(lines, i, end, 0),
				StartLine: i + 1,
				EndLine:   end + 1,
				Fields:    braceClassFields(lines, i, end, lang),
			}
			classes = append(classes, entry)
			stack = append(stack, frame{kind: kindClass, name: name, endLine: end, class: entry})
		}

		for _, sig := range braceSignatures(line) {
			name, col := sig.name, sig.col
			if sigKeywords[name] {
				continue
			}
			// Don't re-report the class name for `class Foo {`.
			if len(stack) > 0 && stack[len(stack)-1].name == name && stack[len(stack)-1].endLine >= i {
				continue
			}
			end := braceBlockEnd(lines, i, col)
			parentClass, parentFunction, classFrame := enclosing(stack)
			fn := types.FunctionEntry{
				Name:           name,
				FilePath:       filePath,
				Body:           bodyText(lines, i, end, col),
				StartLine:      i + 1,
				EndLine:        end + 1,
				ParentFunction: parentFunction,
				ParentClass:    parentClass,
			}
			res.Functions = append(res.Functions, fn)
			if classFrame != nil {
				classFrame.class.Methods = append(classFrame.class.Methods, name)
			}
			stack = append(stack, frame{kind: kindFunction, name: name, endLine: end})
		}
	}

	for _, c := range classes {
		res.Classes = append(res.Classes, *c)
	}
}

// signature is one detected function-like definition within a line.
type signature struct {
	name string
	col  int
}

// braceSignatures finds every function or method signature in a line. The
// keyworded forms (function NAME, arrow functions) are checked first; the
// generic NAME(...) { heuristic catches methods and C-family definitions.
func braceSignatures(line string) []signature {
	var sigs []signature
	seen := map[int]bool{}

	if m := funcKeywordRe.FindStringSubmatchIndex(line); m != nil {
		sigs = append(sigs, signature{name: line[m[2]:m[3]], col: m[0]})
		seen[m[2]] = true
	}
	if m := arrowFuncRe.FindStringSubmatchIndex(line); m != nil {
		sigs = append(sigs, signature{name: line[m[2]:m[3]], col: m[0]})
		seen[m[2]] = true
	}

	for _, m := range braceSigRe.FindAllStringSubmatchIndex(line, -1) {
		if seen[m[2]] {
			continue
		}
		name := line[m[2]:m[3]]
		// `new Foo() {` is an instantiation, not a definition.
		prefix := strings.TrimSpace(line[:m[0]])
		if strings.HasSuffix(prefix, "new") || strings.HasSuffix(prefix, "=") && strings.Contains(line[m[2]:], "=>") {
			continue
		}
		sigs = append(sigs, signature{name: name, col: m[0]})
	}

	if len(sigs) == 0 {
		if m := danglingSigRe.FindStringSubmatchIndex(line); m != nil {
			if fields := strings.Fields(line); len(fields) == 0 || !sigKeywords[fields[0]] {
				sigs = append(sigs, signature{name: line[m[2]:m[3]], col: 0})
			}
		}
	}
	return sigs
}

// braceBlockEnd runs the delimiter-balance scan: from (startLine, startCol),
// find the first { and return the 0-based line where its balance returns to
// zero. If no opening brace is ever found, or the block never closes, the
// block ends at the last line of the file. The scan is character-based and
// deliberately blind to string and comment content.
func braceBlockEnd(lines []string, startLine, startCol int) int {
	depth := 0
	opened := false

	for i := startLine; i < len(lines); i++ {
		line := lines[i]
		start := 0
		if i == startLine && startCol < len(line) {
			start = startCol
		}
		for _, ch := range line[start:] {
			switch ch {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
			if opened && depth == 0 {
				return i
			}
		}
	}
	return len(lines) - 1
}

var (
	// TS/JS class property: name?: type; or name = value;
	tsFieldRe = regexp.MustCompile(`^\s*(?:(?:public|private|protected|readonly|static|declare)\s+)*([A-Za-z_$][\w$]*)\s*[?!]?\s*[:=][^;]*;\s*$`)

	// C-family/Java field: trailing identifier before ; or = in a
	// declaration line with no parentheses.
	cFieldRe = regexp.MustCompile(`([A-Za-z_$][\w$]*)\s*(?:\[[^\]]*\])?\s*(?:=[^;]*)?;\s*$`)
)

// braceClassFields collects declared field names from a class body using a
// no-parentheses-and-ends-with-semicolon heuristic.
func braceClassFields(lines []string, startLine, endLine int, lang types.Language) []string {
	var fields []string
	for i := startLine + 1; i < endLine && i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.Contains(trimmed, "(") ||
			strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") ||
			strings.HasPrefix(trimmed, "/*") || strings.HasPrefix(trimmed, "#") {
			continue
		}

		switch lang {
		case types.LangTypeScript, types.LangJavaScript:
			if m := tsFieldRe.FindStringSubmatch(line); m != nil {
				fields = append(fields, m[1])
			}
		default:
			if !strings.HasSuffix(trimmed, ";") {
				continue
			}
			// Require a type-then-name shape so lone statements don't match.
			if len(strings.Fields(strings.TrimSuffix(trimmed, ";"))) < 2 &&
				!strings.Contains(trimmed, "=") {
				continue
			}
			if m := cFieldRe.FindStringSubmatch(line); m != nil {
				fields = append(fields, m[1])
			}
		}
	}
	return fields
}
