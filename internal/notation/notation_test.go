package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		expectErr bool
		expected  Node
	}{
		{
			name:     "integer",
			src:      "42",
			expected: Node{Kind: KindNumber, Text: "42"},
		},
		{
			name:     "negative float with exponent",
			src:      "-1.5e3",
			expected: Node{Kind: KindNumber, Text: "-1.5e3"},
		},
		{
			name:     "string with escapes",
			src:      `"a\"b\n"`,
			expected: Node{Kind: KindString, Text: "a\"b\n"},
		},
		{
			name:     "bare identifier",
			src:      "Auto",
			expected: Node{Kind: KindIdent, Text: "Auto"},
		},
		{
			name: "call with one argument",
			src:  "Px(10)",
			expected: Node{Kind: KindCall, Text: "Px", Entries: []Entry{
				{Value: Node{Kind: KindNumber, Text: "10"}},
			}},
		},
		{
			name: "group with positional entries",
			src:  "(1, 2)",
			expected: Node{Kind: KindGroup, Entries: []Entry{
				{Value: Node{Kind: KindNumber, Text: "1"}},
				{Value: Node{Kind: KindNumber, Text: "2"}},
			}},
		},
		{
			name: "group with keyed entries",
			src:  "(width: Auto, height: Px(10))",
			expected: Node{Kind: KindGroup, Entries: []Entry{
				{Key: "width", Value: Node{Kind: KindIdent, Text: "Auto"}},
				{Key: "height", Value: Node{Kind: KindCall, Text: "Px", Entries: []Entry{
					{Value: Node{Kind: KindNumber, Text: "10"}},
				}}},
			}},
		},
		{
			name: "map with keyed entries",
			src:  "{count: 3}",
			expected: Node{Kind: KindMap, Entries: []Entry{
				{Key: "count", Value: Node{Kind: KindNumber, Text: "3"}},
			}},
		},
		{
			name: "nested structures",
			src:  `(style: (size: 14, color: "#fff"))`,
			expected: Node{Kind: KindGroup, Entries: []Entry{
				{Key: "style", Value: Node{Kind: KindGroup, Entries: []Entry{
					{Key: "size", Value: Node{Kind: KindNumber, Text: "14"}},
					{Key: "color", Value: Node{Kind: KindString, Text: "#fff"}},
				}}},
			}},
		},
		{
			name: "trailing comma",
			src:  "(1, 2,)",
			expected: Node{Kind: KindGroup, Entries: []Entry{
				{Value: Node{Kind: KindNumber, Text: "1"}},
				{Value: Node{Kind: KindNumber, Text: "2"}},
			}},
		},
		{
			name:     "empty group",
			src:      "()",
			expected: Node{Kind: KindGroup},
		},
		{
			name:      "unterminated string",
			src:       `"abc`,
			expectErr: true,
		},
		{
			name:      "unbalanced group",
			src:       "(1, 2",
			expectErr: true,
		},
		{
			name:      "trailing content",
			src:       "1 2",
			expectErr: true,
		},
		{
			name:      "empty input",
			src:       "",
			expectErr: true,
		},
		{
			name:      "missing value after colon",
			src:       "(a: )",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := Parse(tc.src)
			if tc.expectErr {
				require.Error(t, err)
				var syntaxErr *SyntaxError
				assert.ErrorAs(t, err, &syntaxErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, n)
		})
	}
}

func TestNodeScalar(t *testing.T) {
	assert.True(t, Node{Kind: KindNumber}.Scalar())
	assert.True(t, Node{Kind: KindString}.Scalar())
	assert.True(t, Node{Kind: KindIdent}.Scalar())
	assert.False(t, Node{Kind: KindGroup}.Scalar())
	assert.False(t, Node{Kind: KindCall}.Scalar())
}

func TestNodeKeyed(t *testing.T) {
	keyed, err := Parse("(a: 1, 2)")
	require.NoError(t, err)
	assert.True(t, keyed.Keyed())

	positional, err := Parse("(1, 2)")
	require.NoError(t, err)
	assert.False(t, positional.Keyed())
}
