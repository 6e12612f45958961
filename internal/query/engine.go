// Package query answers exact-name lookups against a populated structural
// index, disambiguating free functions from class methods and bounding the
// size of every textual result.
package query

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"codegraph/internal/storage"
	"codegraph/pkg/types"
)

// Kind selects which function-table rows a lookup returns.
type Kind string

const (
	// KindFunction matches rows with no enclosing class (free functions).
	KindFunction Kind = "function"
	// KindClassMethod matches rows with an enclosing class.
	KindClassMethod Kind = "class_method"
)

const (
	// MaxResultBytes caps the size of any rendered result blob.
	MaxResultBytes = 16384
	// ClipMarker terminates a truncated result.
	ClipMarker = "<response clipped>"
	// cacheSize bounds the number of rendered results kept per engine.
	cacheSize = 256
)

// Request contains parameters for one lookup.
type Request struct {
	Identifier string
	Kind       Kind // Only meaningful for function lookups
	PrintBody  bool
}

// Engine performs lookups against one store. Rendered results are cached;
// the cache must be purged when the index is rebuilt.
type Engine struct {
	store storage.Store
	cache *lru.Cache[string, string]
}

// NewEngine creates a query engine over store.
func NewEngine(store storage.Store) *Engine {
	cache, err := lru.New[string, string](cacheSize)
	if err != nil {
		// Only reachable with an invalid size constant.
		panic(fmt.Sprintf("failed to create query cache: %v", err))
	}
	return &Engine{store: store, cache: cache}
}

// InvalidateCache drops all cached results. Called after a rebuild.
func (e *Engine) InvalidateCache() {
	e.cache.Purge()
}

// SearchFunctions returns every function-table entry named req.Identifier
// whose method-ness matches req.Kind, rendered as a single text blob.
func (e *Engine) SearchFunctions(ctx context.Context, req Request) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	key := cacheKey("fn", req)
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	rows, err := e.store.QueryFunctionsByName(ctx, req.Identifier)
	if err != nil {
		return "", fmt.Errorf("function lookup failed for %q: %w", req.Identifier, err)
	}

	matched := make([]types.FunctionEntry, 0, len(rows))
	for _, row := range rows {
		if (req.Kind == KindClassMethod) == row.IsMethod() {
			matched = append(matched, row)
		}
	}

	out := e.renderFunctions(req, matched)
	e.cache.Add(key, out)
	return out, nil
}

// SearchClasses returns every class entry named req.Identifier.
func (e *Engine) SearchClasses(ctx context.Context, req Request) (string, error) {
	if err := validate(req); err != nil {
		return "", err
	}

	key := cacheKey("cls", req)
	if cached, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	rows, err := e.store.QueryClassesByName(ctx, req.Identifier)
	if err != nil {
		return "", fmt.Errorf("class lookup failed for %q: %w", req.Identifier, err)
	}

	out := e.renderClasses(req, rows)
	e.cache.Add(key, out)
	return out, nil
}

func validate(req Request) error {
	if strings.TrimSpace(req.Identifier) == "" {
		return &types.QueryError{Param: "identifier", Reason: "must not be empty"}
	}
	return nil
}

func cacheKey(table string, req Request) string {
	return fmt.Sprintf("%s\x00%s\x00%s\x00%t", table, req.Identifier, req.Kind, req.PrintBody)
}

func (e *Engine) renderFunctions(req Request, entries []types.FunctionEntry) string {
	noun := "function"
	if req.Kind == KindClassMethod {
		noun = "class method"
	}
	if len(entries) == 0 {
		return fmt.Sprintf("No %s named %q found.", noun, req.Identifier)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s definition(s) of %q.\n", len(entries), noun, req.Identifier)
	for _, entry := range entries {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s:%d-%d", entry.FilePath, entry.StartLine, entry.EndLine)
		if entry.ParentClass != "" {
			fmt.Fprintf(&b, " (class %s)", entry.ParentClass)
		}
		if entry.ParentFunction != "" {
			fmt.Fprintf(&b, " (in function %s)", entry.ParentFunction)
		}
		b.WriteString("\n")
		if req.PrintBody {
			b.WriteString(entry.Body)
			b.WriteString("\n")
		}
	}
	return Truncate(b.String())
}

func (e *Engine) renderClasses(req Request, entries []types.ClassEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No class named %q found.", req.Identifier)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d class definition(s) of %q.\n", len(entries), req.Identifier)
	for _, entry := range entries {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s:%d-%d", entry.FilePath, entry.StartLine, entry.EndLine)
		b.WriteString("\n")
		if len(entry.Fields) > 0 {
			fmt.Fprintf(&b, "fields: %s\n", strings.Join(entry.Fields, ", "))
		}
		if len(entry.Methods) > 0 {
			fmt.Fprintf(&b, "methods: %s\n", strings.Join(entry.Methods, ", "))
		}
		if req.PrintBody {
			b.WriteString(entry.Body)
			b.WriteString("\n")
		}
	}
	return Truncate(b.String())
}

// Truncate enforces the result size cap: output longer than MaxResultBytes
// is cut and terminated with ClipMarker, and never exceeds the cap.
func Truncate(s string) string {
	if len(s) <= MaxResultBytes {
		return s
	}
	return s[:MaxResultBytes-len(ClipMarker)] + ClipMarker
}
