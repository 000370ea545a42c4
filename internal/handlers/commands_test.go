package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterBySep(t *testing.T) {
	testCases := []struct {
		input string
		sep   string
		array []string
	}{
		{"a b c", " ", []string{"a", "b", "c"}},
		{"foo\nbar\nbaz\n\nbazz", "\n", []string{"foo", "bar", "baz", "", "bazz"}},
		{"g", "\n", []string{"g"}},
	}
	for _, test := range testCases {
		var pieces []string
		for i, p := range iterBySep(test.input, test.sep) {
			assert.Equal(t, len(pieces), i)
			pieces = append(pieces, p)
		}
		assert.Equal(t, test.array, pieces)
	}
}

func TestParseCommand(t *testing.T) {
	testCases := []struct {
		input string
		want  command
		err   error
	}{
		{input: "g", want: command{name: "g"}},
		{input: "r", want: command{name: "r"}},
		{input: "o 3 4", want: command{name: "o", x: 3, y: 4}},
		{input: "f  0 1", want: command{name: "f", x: 0, y: 1}},
		{input: "c -1 2", want: command{name: "c", x: -1, y: 2}},
		{input: "", err: ErrUnknownCommand},
		{input: "x 1 2", err: ErrUnknownCommand},
		{input: "o a 2", err: ErrInvalidPosition},
		{input: "o 1 b", err: ErrInvalidPosition},
	}
	for _, test := range testCases {
		t.Run(test.input, func(t *testing.T) {
			cmd, err := parseCommand(test.input)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, cmd)
		})
	}

	for _, input := range []string{"g 1", "o 1", "r 1 2"} {
		_, err := parseCommand(input)
		assert.ErrorContains(t, err, "invalid number of arguments", input)
	}
}
