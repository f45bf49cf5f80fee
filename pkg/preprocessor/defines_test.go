package preprocessor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/duic/pkg/preprocessor"
)

func TestDefines_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	base := preprocessor.DefinesFromMap(map[string]string{"DEBUG": "1"})
	base.Define(preprocessor.Macro{Name: "F", Parameters: []string{"x"}, FunctionLike: true})

	clone := base.Clone()
	clone.Define(preprocessor.Macro{Name: "EXTRA"})
	assert.True(t, clone.Undefine("DEBUG"))
	assert.False(t, clone.Undefine("DEBUG"))

	assert.True(t, base.IsDefined("DEBUG"))
	assert.False(t, base.IsDefined("EXTRA"))
	assert.Equal(t, 2, base.Len())

	m, ok := clone.Lookup("F")
	require.True(t, ok)
	m.Parameters[0] = "y"
	orig, _ := base.Lookup("F")
	assert.Equal(t, []string{"x"}, orig.Parameters)
}

func TestParseDefineFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		spec      string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{spec: "DEBUG", wantName: "DEBUG", wantValue: "1"},
		{spec: "LEVEL=3", wantName: "LEVEL", wantValue: "3"},
		{spec: "EMPTY=", wantName: "EMPTY", wantValue: ""},
		{spec: "URL=a=b", wantName: "URL", wantValue: "a=b"},
		{spec: "1BAD", wantErr: true},
		{spec: "=x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			t.Parallel()

			name, value, err := preprocessor.ParseDefineFlag(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestClassifyKeyword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		keyword string
		want    preprocessor.KeywordClass
	}{
		{"if", preprocessor.KeywordSupported},
		{"endif", preprocessor.KeywordSupported},
		{"error", preprocessor.KeywordSupported},
		{"import", preprocessor.KeywordUnsupported},
		{"using", preprocessor.KeywordUnsupported},
		{"warning", preprocessor.KeywordPreprocessorOnly},
		{"include_next", preprocessor.KeywordPreprocessorOnly},
		{"IF", preprocessor.KeywordInvalid},
		{"region", preprocessor.KeywordInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, preprocessor.ClassifyKeyword(tt.keyword), tt.want.String())
		})
	}

	assert.True(t, preprocessor.IsIdentifier("_Foo9"))
	assert.False(t, preprocessor.IsIdentifier("9Foo"))
	assert.False(t, preprocessor.IsIdentifier(""))
}
