// Package parser extracts function, method, and class definitions from
// source text using structural heuristics rather than a full grammar.
//
// Definitions are located line-by-line via pattern matching (class NAME,
// def NAME, function NAME, and a brace-family NAME(...) { signature
// heuristic), and each definition's extent is measured with a
// delimiter-balance scan for brace languages or an indentation-depth scan
// for Python. The scan is character-based and not aware of string or
// comment content; that imprecision is a deliberate tradeoff for speed and
// language coverage.
//
// Nesting is tracked on a traversal stack: a definition discovered inside
// another definition's span records its enclosing class (methods) or
// enclosing function (nested functions).
package parser
