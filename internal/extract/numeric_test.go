package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNumericOrDefault(t *testing.T) {
	cases := []struct {
		text     string
		expected float64
	}{
		{text: "2,957,880", expected: 2957880},
		{text: "1234", expected: 1234},
		{text: "0", expected: 0},
		{text: "26,854,599\n", expected: -1},
		{text: " 1234", expected: -1},
		{text: "2,957,880 ", expected: -1},
		{text: " 0 ", expected: -1},
		{text: "", expected: -1},
		{text: ",,", expected: -1},
		{text: "—", expected: -1},
		{text: "[n 1]", expected: -1},
		{text: "12.5", expected: -1},
		{text: "-12", expected: -1},
		{text: "+12", expected: -1},
		{text: "1 234", expected: -1},
		{text: "٣", expected: -1},
		{text: "1e5", expected: -1},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, ParseNumericOrDefault(test.text, -1), "text %q", test.text)
	}
}
