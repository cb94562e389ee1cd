package normalize

import (
	"testing"

	"github.com/phrazzld/dialogen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestObjectFencedEqualsUnfenced verifies that wrapping a payload in
// markdown fences does not change the parsed record.
func TestObjectFencedEqualsUnfenced(t *testing.T) {
	plain := `{"persona":"Tester","scenario":"chai break"}`
	fenced := "```json\n" + plain + "\n```"

	wantObj, ok := Object(plain)
	require.True(t, ok)

	gotObj, ok := Object(fenced)
	require.True(t, ok, "fenced payload should normalize")
	assert.Equal(t, wantObj, gotObj, "fenced and unfenced payloads should parse identically")
}

// TestObjectRepairsOneDelimiterPerEnd covers the narrow repair contract:
// exactly one missing delimiter is fixed at each end, nothing more.
func TestObjectRepairsOneDelimiterPerEnd(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want map[string]any
		ok   bool
	}{
		{
			name: "missing closing brace",
			raw:  "```json\n{\"a\":1\n```",
			want: map[string]any{"a": float64(1)},
			ok:   true,
		},
		{
			name: "missing opening brace",
			raw:  `"a":1}`,
			want: map[string]any{"a": float64(1)},
			ok:   true,
		},
		{
			name: "missing both",
			raw:  `"a":1`,
			want: map[string]any{"a": float64(1)},
			ok:   true,
		},
		{
			name: "two missing closers stays broken",
			raw:  `{"a":{"b":1`,
			ok:   false,
		},
		{name: "empty input", raw: "", ok: false},
		{name: "empty object is dropped", raw: "{}", ok: false},
		{name: "plain garbage", raw: "sorry, I cannot do that", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Object(tc.raw)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

// TestTurnsAssignsRolesByParity verifies the alternation invariant on
// normalized turn arrays.
func TestTurnsAssignsRolesByParity(t *testing.T) {
	turns, ok := Turns(`["hi there","yo","kya haal hai","sab badhiya"]`)
	require.True(t, ok)
	require.Len(t, turns, 4)

	for i, turn := range turns {
		assert.Equal(t, domain.RoleAt(i), turn.Role, "turn %d", i)
	}
	assert.Equal(t, domain.RoleUser, turns[0].Role, "first turn must be the user")
	require.NoError(t, domain.ValidateTurns(turns))
}

// TestTurnsAcceptsObjectEntries verifies the {"text": ...} entry shape.
func TestTurnsAcceptsObjectEntries(t *testing.T) {
	turns, ok := Turns(`[{"speaker":"A","text":"hello"},{"speaker":"B","text":"hi"}]`)
	require.True(t, ok)
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].Content)
	assert.Equal(t, "hi", turns[1].Content)
}

func TestTurnsRejectsEmptyArrays(t *testing.T) {
	_, ok := Turns("[]")
	assert.False(t, ok)

	_, ok = Turns(`["   ", ""]`)
	assert.False(t, ok, "whitespace-only messages sanitize to nothing")
}

func TestSanitizeMessage(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "speaker prefix stripped",
			in:   "Priyanka: chal movie dekhte hain",
			want: "chal movie dekhte hain",
		},
		{
			name: "lowercase prefix kept",
			in:   "note: this stays",
			want: "note: this stays",
		},
		{
			name: "emoji removed",
			in:   "kitna accha din hai \U0001F600❤️ yaar",
			want: "kitna accha din hai yaar",
		},
		{
			name: "deny-listed name removed",
			in:   "maine Rahul se kaha",
			want: "maine se kaha",
		},
		{
			name: "possessive deny-listed name removed",
			in:   "yeh Priya's phone hai",
			want: "yeh phone hai",
		},
		{
			name: "deny-listed name inside a word survives",
			in:   "Rahulpur station dur hai",
			want: "Rahulpur station dur hai",
		},
		{
			name: "whitespace collapsed",
			in:   "kya   baat\thai",
			want: "kya baat hai",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeMessage(tc.in))
		})
	}
}
