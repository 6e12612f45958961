package types

import "errors"

// Language identifies a supported language family for structural parsing.
type Language string

const (
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangCPP        Language = "cpp"
	LangC          Language = "c"
	LangTypeScript Language = "typescript"
	LangJavaScript Language = "javascript"
)

// BlockStyle describes how a language delimits definition bodies.
type BlockStyle int

const (
	// BlockBrace languages bound definitions with { and }.
	BlockBrace BlockStyle = iota
	// BlockIndent languages bound definitions by indentation depth.
	BlockIndent
)

// Style returns the block delimiting style for the language.
func (l Language) Style() BlockStyle {
	if l == LangPython {
		return BlockIndent
	}
	return BlockBrace
}

// ExtensionLanguages maps file extensions to language families. The table is
// fixed; files with other extensions are skipped during indexing.
var ExtensionLanguages = map[string]Language{
	".py":   LangPython,
	".java": LangJava,
	".cpp":  LangCPP,
	".hpp":  LangCPP,
	".c++":  LangCPP,
	".cxx":  LangCPP,
	".cc":   LangCPP,
	".c":    LangC,
	".h":    LangC,
	".ts":   LangTypeScript,
	".tsx":  LangTypeScript,
	".js":   LangJavaScript,
	".jsx":  LangJavaScript,
}

// FunctionEntry is a stored record for one function or method definition.
// Names are not unique; a lookup returns every entry with a matching name.
type FunctionEntry struct {
	ID       int64
	Name     string
	FilePath string // Absolute path to the defining file
	Body     string // Raw source text, signature included

	// 1-based, inclusive. EndLine falls back to the last line of the file
	// when no closing delimiter exists.
	StartLine int
	EndLine   int

	ParentFunction string // Enclosing function name for nested functions
	ParentClass    string // Enclosing class name; set iff this is a method
}

// IsMethod reports whether the entry is a class method rather than a free
// function.
func (e *FunctionEntry) IsMethod() bool {
	return e.ParentClass != ""
}

// Validate checks structural invariants of the entry.
func (e *FunctionEntry) Validate() error {
	if e.Name == "" {
		return errors.New("entry name cannot be empty")
	}
	if e.FilePath == "" {
		return errors.New("entry file path cannot be empty")
	}
	if e.StartLine < 1 || e.EndLine < e.StartLine {
		return errors.New("entry line range is invalid")
	}
	return nil
}

// ClassEntry is a stored record for one class or type definition.
type ClassEntry struct {
	ID       int64
	Name     string
	FilePath string
	Body     string

	StartLine int
	EndLine   int

	Fields  []string // Declared field names, in source order
	Methods []string // Method names, in source order
}

// Validate checks structural invariants of the entry.
func (e *ClassEntry) Validate() error {
	if e.Name == "" {
		return errors.New("entry name cannot be empty")
	}
	if e.FilePath == "" {
		return errors.New("entry file path cannot be empty")
	}
	if e.StartLine < 1 || e.EndLine < e.StartLine {
		return errors.New("entry line range is invalid")
	}
	return nil
}
