package internal

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

type fakeConn struct {
	io.Reader
	bytes.Buffer
}

func (c *fakeConn) Read(p []byte) (int, error) {
	return c.Reader.Read(p)
}

func newFakeConn(input string) *fakeConn {
	return &fakeConn{Reader: strings.NewReader(input)}
}

func lettersOnly(s string) (bool, string) {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false, "letters only\n"
		}
	}
	return s != "", "letters only\n"
}

func TestPrompter_Prompt(t *testing.T) {
	tests := map[string]struct {
		input     string
		opts      []promptOption
		exp       string
		expOutput string
		expErr    string
	}{
		"plain line": {
			input:     "alice\n",
			exp:       "alice",
			expOutput: "name? ",
		},
		"crlf and spaces trimmed": {
			input:     "  alice \r\n",
			exp:       "alice",
			expOutput: "name? ",
		},
		"final line without newline": {
			input:     "alice",
			exp:       "alice",
			expOutput: "name? ",
		},
		"validator retries": {
			input:     "4lice\nalice\n",
			opts:      []promptOption{WithValidator(lettersOnly)},
			exp:       "alice",
			expOutput: "name? letters only\nname? ",
		},
		"too many tries": {
			input:     "1\n2\n3\n",
			opts:      []promptOption{WithValidator(lettersOnly), WithMaxTries(2)},
			expOutput: "name? letters only\nname? letters only\nToo many tries.\n",
			expErr:    "too many tries",
		},
		"eof": {
			input:     "",
			expOutput: "name? ",
			expErr:    "EOF",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			conn := newFakeConn(tt.input)
			p := NewPrompter(conn)

			got, err := p.Prompt("name? ", tt.opts...)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "input", got, tt.exp)
			testutil.AssertEqual(t, "output", conn.String(), tt.expOutput)
		})
	}
}

func TestPrompter_PromptYN(t *testing.T) {
	tests := map[string]struct {
		input string
		exp   bool
	}{
		"yes":       {input: "yes\n", exp: true},
		"y":         {input: "Y\n", exp: true},
		"no":        {input: "no\n", exp: false},
		"retry yes": {input: "maybe\ny\n", exp: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p := NewPrompter(newFakeConn(tt.input))

			got, err := p.PromptYN("ok? ")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "answer", got, tt.exp)
		})
	}
}

func TestPrompter_SharesBufferedInput(t *testing.T) {
	p := NewPrompter(newFakeConn("alice\nlook\nsay hi\n"))

	name, err := p.Prompt("name? ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "name", name, "alice")

	for _, exp := range []string{"look", "say hi"} {
		line, err := p.ReadLine()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		testutil.AssertEqual(t, "line", line, exp)
	}

	_, err = p.ReadLine()
	testutil.AssertErrorContains(t, err, "EOF")
}
