package filter

import (
	"fmt"
	"strings"

	"github.com/s0up4200/reelsearch/cache"
)

// DefaultCacheSize bounds the number of compiled expressions kept in memory
const DefaultCacheSize = 64

// Compiler compiles expressions and caches the resulting programs
type Compiler struct {
	cache *cache.LRU[string, *ExprFilter]
}

// NewCompiler creates a compiler caching up to size programs
func NewCompiler(size int) *Compiler {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Compiler{cache: cache.New[string, *ExprFilter](size)}
}

// Compile returns a cached filter for expression or compiles a new one
func (c *Compiler) Compile(expression string) (*ExprFilter, error) {
	key := strings.TrimSpace(expression)
	if f, ok := c.cache.Get(key); ok {
		return f, nil
	}

	f, err := CompileExprFilter(expression)
	if err != nil {
		return nil, err
	}
	c.cache.Put(key, f)
	return f, nil
}

// Clear removes all cached filters
func (c *Compiler) Clear() {
	c.cache.Clear()
}

// Size returns the number of cached filters
func (c *Compiler) Size() int {
	return c.cache.Len()
}

var defaultCompiler = NewCompiler(DefaultCacheSize)

// Compile compiles expression using the shared compiler cache
func Compile(expression string) (*ExprFilter, error) {
	return defaultCompiler.Compile(expression)
}

// Resolve picks the expression to use: explicit expression, then named preset,
// then the configured default. An empty result means no filtering.
func Resolve(expression, preset string, presets map[string]string, fallback string) (string, error) {
	if expression != "" {
		return expression, nil
	}

	if preset != "" {
		if presetExpr, ok := presets[preset]; ok {
			return presetExpr, nil
		}
		return "", fmt.Errorf("%w: '%s'", ErrPresetNotFound, preset)
	}

	return fallback, nil
}
