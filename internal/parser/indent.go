package parser

import (
	"regexp"
	"strings"

	"codegraph/pkg/types"
)

var (
	pyDefRe   = regexp.MustCompile(`^(\s*)(?:async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
	pyClassRe = regexp.MustCompile(`^(\s*)class\s+([A-Za-z_]\w*)\s*[(:]`)

	// Class-level attribute: NAME = value or NAME: type at class body indent.
	pyFieldRe = regexp.MustCompile(`^\s*([A-Za-z_]\w*)\s*(?::[^=]+)?=(?:[^=]|$)`)
)

// parseIndent extracts Python definitions. Block extent uses an
// indentation-depth scan: a definition ends on the last line before the
// first subsequent non-blank line indented at or shallower than the
// definition line. Brace matching is explicitly not used for this family;
// braces in Python are expression syntax, not block delimiters.
func (p *Parser) parseIndent(lines []string, filePath string, res *Result) {
	var stack []frame
	var classes []*types.ClassEntry

	for i, line := range lines {
		stack = pruneStack(stack, i)

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if m := pyClassRe.FindStringSubmatch(line); m != nil {
			end := indentBlockEnd(lines, i, len(m[1]))
			entry := &types.ClassEntry{
				Name:      m[2],
				FilePath:  filePath,
				Body:      bodyText(lines, i, end, 0),
				StartLine: i + 1,
				EndLine:   end + 1,
				Fields:    pyClassFields(lines, i, end, len(m[1])),
			}
			classes = append(classes, entry)
			stack = append(stack, frame{kind: kindClass, name: m[2], endLine: end, class: entry})
			continue
		}

		if m := pyDefRe.FindStringSubmatch(line); m != nil {
			end := indentBlockEnd(lines, i, len(m[1]))
			parentClass, parentFunction, classFrame := enclosing(stack)
			fn := types.FunctionEntry{
				Name:           m[2],
				FilePath:       filePath,
				Body:           bodyText(lines, i, end, 0),
				StartLine:      i + 1,
				EndLine:        end + 1,
				ParentFunction: parentFunction,
				ParentClass:    parentClass,
			}
			res.Functions = append(res.Functions, fn)
			if classFrame != nil {
				classFrame.class.Methods = append(classFrame.class.Methods, m[2])
			}
			stack = append(stack, frame{kind: kindFunction, name: m[2], endLine: end})
		}
	}

	for _, c := range classes {
		res.Classes = append(res.Classes, *c)
	}
}

// indentBlockEnd returns the 0-based last line of a block whose introducing
// line sits at the given indentation width. Trailing blank lines are not
// counted as part of the block.
func indentBlockEnd(lines []string, startLine, indent int) int {
	end := startLine
	for i := startLine + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if indentWidth(lines[i]) <= indent {
			return end
		}
		end = i
	}
	return end
}

// indentWidth measures leading whitespace with tabs counted as one column
// each; mixed indentation files are out of scope for exact widths.
func indentWidth(line string) int {
	for i, ch := range line {
		if ch != ' ' && ch != '\t' {
			return i
		}
	}
	return len(line)
}

// pyClassFields collects class-level attribute names: assignments or
// annotated declarations one indent level inside the class body.
func pyClassFields(lines []string, startLine, endLine, classIndent int) []string {
	bodyIndent := -1
	var fields []string

	for i := startLine + 1; i <= endLine && i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		w := indentWidth(line)
		if bodyIndent < 0 {
			bodyIndent = w
		}
		if w != bodyIndent {
			continue
		}
		if strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "async def ") ||
			strings.HasPrefix(trimmed, "class ") {
			continue
		}
		if m := pyFieldRe.FindStringSubmatch(line); m != nil {
			fields = append(fields, m[1])
		}
	}
	return fields
}
