package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegmentReply(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "two bubbles",
			raw:  "hello\n---\nhow are you",
			want: []string{"hello", "how are you"},
		},
		{
			name: "no delimiter",
			raw:  "just one message",
			want: []string{"just one message"},
		},
		{
			name: "escaped newlines normalized",
			raw:  `miss you\n---\ncall me later?`,
			want: []string{"miss you", "call me later?"},
		},
		{
			name: "whitespace around delimiter",
			raw:  "first  \n   ---   \n  second",
			want: []string{"first", "second"},
		},
		{
			name: "trailing delimiter dropped",
			raw:  "only one\n---\n",
			want: []string{"only one"},
		},
		{
			name: "leading delimiter dropped",
			raw:  "---\nhey you",
			want: []string{"hey you"},
		},
		{
			name: "empty input still yields one bubble",
			raw:  "",
			want: []string{""},
		},
		{
			name: "delimiters only fall back to whole text",
			raw:  "---\n---\n---",
			want: []string{"---\n---\n---"},
		},
		{
			name: "three bubbles keep order",
			raw:  "a\n---\nb\n---\nc",
			want: []string{"a", "b", "c"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, SegmentReply(tc.raw))
		})
	}
}

func TestSegmentReply_NeverEmpty(t *testing.T) {
	inputs := []string{"", "   ", "\n\n", "---", "\\n", "x"}
	for _, in := range inputs {
		require.GreaterOrEqual(t, len(SegmentReply(in)), 1, "input=%q", in)
	}
}

func TestSegmentReply_IdempotentOnJoinedBubbles(t *testing.T) {
	bubbles := []string{"good morning", "did you sleep well?", "I made chai"}
	joined := strings.Join(bubbles, "\n---\n")
	require.Equal(t, bubbles, SegmentReply(joined))
}
