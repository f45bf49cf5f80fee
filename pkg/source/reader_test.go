package source_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/pkg/source"
)

func TestReader_PeekRead(t *testing.T) {
	t.Parallel()

	reader := source.NewAnonymous("abc").NewReader()

	char, err := reader.Peek(0)
	require.NoError(t, err)
	assert.Equal(t, byte('a'), char)
	assert.Equal(t, 0, reader.Offset())

	char, err = reader.Peek(2)
	require.NoError(t, err)
	assert.Equal(t, byte('c'), char)

	char, err = reader.Read(1)
	require.NoError(t, err)
	assert.Equal(t, byte('b'), char)
	assert.Equal(t, 2, reader.Offset())

	char, err = reader.Read(0)
	require.NoError(t, err)
	assert.Equal(t, byte('c'), char)
	assert.True(t, reader.AtEnd())

	_, err = reader.Read(0)
	require.ErrorIs(t, err, source.ErrOutOfBounds)
}

func TestReader_PeekBeforeStart(t *testing.T) {
	t.Parallel()

	reader := source.NewAnonymous("abc").NewReader()

	_, err := reader.Peek(-1)
	require.ErrorIs(t, err, source.ErrReadFailed)
}

func TestReader_Rewind(t *testing.T) {
	t.Parallel()

	reader := source.NewAnonymous("hello").NewReader()
	_, _ = reader.Read(3)

	char, err := reader.Rewind(2)
	require.NoError(t, err)
	assert.Equal(t, byte('l'), char)
	assert.Equal(t, 2, reader.Offset())
}

func TestReader_LookAround(t *testing.T) {
	t.Parallel()

	reader := source.NewAnonymous("a/*b*/").NewReader()
	_, _ = reader.Read(0)

	assert.True(t, reader.LookAheadForChar('/', 0))
	assert.True(t, reader.LookAheadForChar('*', 1))
	assert.False(t, reader.LookAheadForChar('*', 0))
	assert.False(t, reader.LookAheadForChar('x', 100))

	assert.True(t, reader.LookBehindForChar('a', 0))
	assert.False(t, reader.LookBehindForChar('a', -1))

	assert.True(t, reader.LookAheadForSequence("/*", 0))
	assert.True(t, reader.LookAheadForSequence("*/", 3))
	assert.False(t, reader.LookAheadForSequence("*/x", 3))
	assert.False(t, reader.LookAheadForSequence("a", -5))

	require.NoError(t, reader.SetCursor(6))
	assert.True(t, reader.LookBehindForSequence("*/", 0))
	assert.True(t, reader.LookBehindForSequence("a/", -4))
}

func TestReader_SetCursorAndReset(t *testing.T) {
	t.Parallel()

	reader := source.NewAnonymous("abc").NewReader()

	require.NoError(t, reader.SetCursor(3))
	assert.True(t, reader.AtEnd())
	require.ErrorIs(t, reader.SetCursor(4), source.ErrOutOfBounds)
	assert.Equal(t, 3, reader.Offset())

	reader.Reset()
	assert.Equal(t, 0, reader.Offset())
}

func TestReader_Origin(t *testing.T) {
	t.Parallel()

	src := source.NewAnonymous("ab\ncd")
	reader := src.NewReader()
	require.NoError(t, reader.SetCursor(3))

	origin := reader.Origin(1)
	assert.Equal(t, 4, origin.Offset)
	assert.Equal(t, source.Position{Line: 2, Column: 2}, origin.Position())
	assert.Same(t, src, reader.Source())
}

func TestReader_IndependentReadersShareProvider(t *testing.T) {
	t.Parallel()

	src := source.NewFile("x.h", source.FileTypePreprocessor, "line one\nline two\nline three\n")

	var wg sync.WaitGroup
	counts := make([]int, 8)
	for worker := range counts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reader := src.NewReader()
			for {
				char, err := reader.Read(0)
				if err != nil {
					return
				}
				if char == '\n' {
					counts[worker]++
				}
			}
		}()
	}
	wg.Wait()

	for _, count := range counts {
		assert.Equal(t, 3, count)
	}
	assert.Len(t, src.LineOffsets(), 3)
}
