package cli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  hello world  \n"))

	got, err := GetSimpleText(reader, "Say something", &out)

	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Contains(t, out.String(), "Say something")
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("no newline"))

	got, err := GetSimpleText(reader, "Say something", &out)

	require.NoError(t, err)
	assert.Equal(t, "no newline", got)
}

func TestGetSimpleText_EOFWithoutInput(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader(""))

	_, err := GetSimpleText(reader, "Say something", &out)
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
	defer func() { readPassword = orig }()

	var out bytes.Buffer
	pw, err := GetPassword(&out)

	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Contains(t, out.String(), "Enter password:")
}
