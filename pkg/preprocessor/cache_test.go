package preprocessor_test

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/pkg/preprocessor"
	"github.com/yaklabco/duic/pkg/source"
)

type skipAlways struct{}

func (skipAlways) ShouldSkip() bool { return true }

func TestIncludeCache_PopulateOnce(t *testing.T) {
	t.Parallel()

	cache := preprocessor.NewIncludeCache()
	file := source.NewFile("a.h", source.FileTypePreprocessor, "#pragma once\n")

	first := preprocessor.NewGuardItem(file, "")
	assert.True(t, cache.Store("/src/a.h", first))
	assert.False(t, cache.Store("/src/a.h", skipAlways{}))

	item, ok := cache.Lookup("/src/a.h")
	require.True(t, ok)
	assert.Same(t, first, item)
	assert.True(t, cache.ShouldSkip("/src/a.h"))
	assert.Same(t, file, first.Target())
	assert.False(t, cache.ShouldSkip("/src/b.h"))

	cache.Store("/src/0.h", skipAlways{})
	assert.Equal(t, []string{"/src/0.h", "/src/a.h"}, cache.Keys())
	assert.Equal(t, 2, cache.Len())

	runtime.KeepAlive(file)
}

func TestIncludeCache_ConcurrentStore(t *testing.T) {
	t.Parallel()

	cache := preprocessor.NewIncludeCache()

	const workers = 16
	var stored atomic.Int32
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if cache.Store("same", skipAlways{}) {
				stored.Add(1)
			}
			cache.ShouldSkip("same")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), stored.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestDetectGuard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantKind  preprocessor.GuardKind
		wantMacro string
	}{
		{name: "macro guard", input: "#ifndef DEFS_H\n#define DEFS_H\n#define X 1\n#endif\n", wantKind: preprocessor.GuardMacro, wantMacro: "DEFS_H"},
		{name: "pragma once", input: "#pragma once\n#define X 1\n", wantKind: preprocessor.GuardPragmaOnce},
		{name: "mismatched define", input: "#ifndef A_H\n#define B_H\n#endif\n", wantKind: preprocessor.GuardNone},
		{name: "ifdef is not a guard", input: "#ifdef A_H\n#define A_H\n#endif\n", wantKind: preprocessor.GuardNone},
		{name: "directive after guard", input: "#ifndef A_H\n#define A_H\n#endif\n#define Y\n", wantKind: preprocessor.GuardNone},
		{name: "guard with else", input: "#ifndef A_H\n#define A_H\n#else\n#endif\n", wantKind: preprocessor.GuardNone},
		{name: "no directives", input: "int x;\n", wantKind: preprocessor.GuardNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, world, err := header(t, tt.input)
			require.NoError(t, err)

			guard := preprocessor.DetectGuard(world, p.PragmaOnce())
			assert.Equal(t, tt.wantKind, guard.Kind, guard.Kind.String())
			assert.Equal(t, tt.wantMacro, guard.Macro)
		})
	}
}
