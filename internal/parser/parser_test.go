package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codegraph/pkg/types"
)

func TestLanguageFor(t *testing.T) {
	tests := []struct {
		path string
		lang types.Language
		ok   bool
	}{
		{"/repo/app.py", types.LangPython, true},
		{"/repo/Main.java", types.LangJava, true},
		{"/repo/util.cpp", types.LangCPP, true},
		{"/repo/util.h", types.LangC, true},
		{"/repo/index.ts", types.LangTypeScript, true},
		{"/repo/view.jsx", types.LangJavaScript, true},
		{"/repo/UPPER.PY", types.LangPython, true},
		{"/repo/readme.md", "", false},
		{"/repo/Makefile", "", false},
	}

	for _, tt := range tests {
		lang, ok := LanguageFor(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		if tt.ok {
			assert.Equal(t, tt.lang, lang, tt.path)
		}
	}
}

func TestParsePythonFunction(t *testing.T) {
	src := `def baz():
    return 42
`
	res := New().Parse(src, "/repo/b.py", types.LangPython)

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "baz", fn.Name)
	assert.Equal(t, 1, fn.StartLine)
	assert.Equal(t, 2, fn.EndLine)
	assert.Empty(t, fn.ParentClass)
	assert.Empty(t, fn.ParentFunction)
	assert.Contains(t, fn.Body, "return 42")
}

func TestParsePythonClass(t *testing.T) {
	src := `class Point:
    x = 0
    y: int = 0

    def move(self, dx):
        self.x += dx

def free():
    pass
`
	res := New().Parse(src, "/repo/point.py", types.LangPython)

	require.Len(t, res.Classes, 1)
	cls := res.Classes[0]
	assert.Equal(t, "Point", cls.Name)
	assert.Equal(t, 1, cls.StartLine)
	assert.Equal(t, 6, cls.EndLine)
	assert.Equal(t, []string{"x", "y"}, cls.Fields)
	assert.Equal(t, []string{"move"}, cls.Methods)

	require.Len(t, res.Functions, 2)
	assert.Equal(t, "move", res.Functions[0].Name)
	assert.Equal(t, "Point", res.Functions[0].ParentClass)
	assert.Equal(t, "free", res.Functions[1].Name)
	assert.Empty(t, res.Functions[1].ParentClass)
}

func TestParsePythonComparisonIsNotField(t *testing.T) {
	src := `class Guard:
    limit = 10
    def check(self):
        ok = self.limit == 10
        return ok
`
	res := New().Parse(src, "/repo/guard.py", types.LangPython)

	require.Len(t, res.Classes, 1)
	assert.Equal(t, []string{"limit"}, res.Classes[0].Fields)
}

func TestParseSingleLineClassBody(t *testing.T) {
	src := "class Foo { bar() { return 1; } }\n"
	res := New().Parse(src, "/repo/a.ts", types.LangTypeScript)

	require.Len(t, res.Classes, 1)
	assert.Equal(t, "Foo", res.Classes[0].Name)
	assert.Equal(t, 1, res.Classes[0].StartLine)
	assert.Equal(t, 1, res.Classes[0].EndLine)
	assert.Equal(t, []string{"bar"}, res.Classes[0].Methods)

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "bar", fn.Name)
	assert.Equal(t, "Foo", fn.ParentClass)
	assert.Contains(t, fn.Body, "return 1")
}

func TestParseTypeScriptClass(t *testing.T) {
	src := `export class Worker {
  private queue: string[] = [];
  active = false;

  run(task: string): void {
    this.queue.push(task);
  }

  stop() {
    this.active = false;
  }
}
`
	res := New().Parse(src, "/repo/worker.ts", types.LangTypeScript)

	require.Len(t, res.Classes, 1)
	cls := res.Classes[0]
	assert.Equal(t, "Worker", cls.Name)
	assert.Equal(t, 1, cls.StartLine)
	assert.Equal(t, 12, cls.EndLine)
	assert.Equal(t, []string{"queue", "active"}, cls.Fields)
	assert.Equal(t, []string{"run", "stop"}, cls.Methods)

	require.Len(t, res.Functions, 2)
	for _, fn := range res.Functions {
		assert.Equal(t, "Worker", fn.ParentClass)
		assert.True(t, fn.IsMethod())
	}
}

func TestParseNestedFunctions(t *testing.T) {
	src := `function outer() {
  function inner() {
    return 1;
  }
}
`
	res := New().Parse(src, "/repo/nest.js", types.LangJavaScript)

	require.Len(t, res.Functions, 2)
	assert.Equal(t, "outer", res.Functions[0].Name)
	assert.Empty(t, res.Functions[0].ParentFunction)
	assert.Equal(t, "inner", res.Functions[1].Name)
	assert.Equal(t, "outer", res.Functions[1].ParentFunction)
}

func TestParseArrowFunction(t *testing.T) {
	src := `const add = (a, b) => {
  return a + b;
};
`
	res := New().Parse(src, "/repo/math.ts", types.LangTypeScript)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, "add", res.Functions[0].Name)
}

func TestParseAllmanStyle(t *testing.T) {
	src := `int main()
{
    return 0;
}
`
	res := New().Parse(src, "/repo/main.c", types.LangC)

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, 1, fn.StartLine)
	assert.Equal(t, 4, fn.EndLine)
}

func TestParseJavaClass(t *testing.T) {
	src := `public final class Account {
    private long balance;

    public void deposit(long amount) {
        balance += amount;
    }
}
`
	res := New().Parse(src, "/repo/Account.java", types.LangJava)

	require.Len(t, res.Classes, 1)
	assert.Equal(t, "Account", res.Classes[0].Name)
	assert.Equal(t, []string{"balance"}, res.Classes[0].Fields)
	assert.Equal(t, []string{"deposit"}, res.Classes[0].Methods)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, "deposit", res.Functions[0].Name)
	assert.Equal(t, "Account", res.Functions[0].ParentClass)
}

func TestParseControlKeywordsIgnored(t *testing.T) {
	src := `function work() {
  if (ready) {
    while (busy) {
      spin();
    }
  }
  return done(x)
}
`
	res := New().Parse(src, "/repo/flow.js", types.LangJavaScript)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, "work", res.Functions[0].Name)
}

func TestParseUnclosedBraceExtendsToEOF(t *testing.T) {
	src := `function broken() {
  let x = 1;`
	res := New().Parse(src, "/repo/broken.js", types.LangJavaScript)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, 1, res.Functions[0].StartLine)
	assert.Equal(t, 2, res.Functions[0].EndLine)
}

func TestParseCommentLinesSkipped(t *testing.T) {
	src := `// function fake() {
/* class Phantom { */
function real() {
  return 1;
}
`
	res := New().Parse(src, "/repo/c.js", types.LangJavaScript)

	require.Len(t, res.Functions, 1)
	assert.Equal(t, "real", res.Functions[0].Name)
	assert.Empty(t, res.Classes)
}

func TestParseEmptyContent(t *testing.T) {
	res := New().Parse("", "/repo/empty.py", types.LangPython)
	assert.Empty(t, res.Functions)
	assert.Empty(t, res.Classes)
}

func TestSplitLinesDropsTrailingNewlineSegment(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb"))
	assert.Equal(t, []string{""}, splitLines(""))
}

func TestIndentBlockEndExcludesTrailingBlanks(t *testing.T) {
	lines := []string{
		"def a():",
		"    pass",
		"",
		"",
		"def b():",
		"    pass",
	}
	assert.Equal(t, 1, indentBlockEnd(lines, 0, 0))
	assert.Equal(t, 5, indentBlockEnd(lines, 4, 0))
}
