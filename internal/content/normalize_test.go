package content

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Idempotent(t *testing.T) {
	src := []byte("Title\n=====\n\nSome paragraph with *emphasis*.\n\n- one\n- two\n")

	once, err := Normalize(src)
	require.NoError(t, err)

	twice, err := Normalize(once)
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestNormalize_EndsWithSingleNewline(t *testing.T) {
	out, err := Normalize([]byte("# A"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(out), "\n"))
	assert.False(t, strings.HasSuffix(string(out), "\n\n"))
}

func TestNormalize_InvalidUTF8(t *testing.T) {
	_, err := Normalize([]byte{0xff, 0xfe, '#', ' ', 'A'})
	require.Error(t, err)

	var malformed *MalformedContentError
	require.ErrorAs(t, err, &malformed)
}

func TestChecksum_StableAcrossFormatting(t *testing.T) {
	// Setext and ATX headings produce the same syntax tree, as do extra
	// blank lines and trailing spaces. All of these are the same logical
	// document.
	variants := [][]byte{
		[]byte("# Connection refused\n\nCheck the port.\n"),
		[]byte("Connection refused\n==================\n\nCheck the port.\n"),
		[]byte("# Connection refused\n\n\n\nCheck the port.   \n\n"),
	}

	want, err := Checksum(variants[0])
	require.NoError(t, err)

	for i, v := range variants[1:] {
		got, err := Checksum(v)
		require.NoError(t, err)
		assert.Equal(t, want, got, "variant %d", i+1)
	}
}

func TestChecksum_DiffersOnContentChange(t *testing.T) {
	a, err := Checksum([]byte("# A\n\nOld advice.\n"))
	require.NoError(t, err)

	b, err := Checksum([]byte("# A\n\nNew advice.\n"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestChecksum_Shape(t *testing.T) {
	sum, err := Checksum([]byte("# A\n"))
	require.NoError(t, err)

	// hex-encoded SHA-256
	assert.Len(t, sum, 64)
	assert.Regexp(t, "^[0-9a-f]+$", sum)
}

func TestChecksum_MalformedPropagates(t *testing.T) {
	_, err := Checksum([]byte{0xc3, 0x28})
	var malformed *MalformedContentError
	require.ErrorAs(t, err, &malformed)
}

func TestNormalize_Golden(t *testing.T) {
	src := []byte(`Connection refused
==================

The API rejects connections when the port is closed.

## Fix

Check the service status first.
`)

	out, err := Normalize(src)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "canonical_basic", out)
}

func TestNormalize_PreservesComponentTags(t *testing.T) {
	src := []byte("# A\n\n<Note type=\"warning\">\nMind the gap.\n</Note>\n")

	out, err := Normalize(src)
	require.NoError(t, err)

	assert.Contains(t, string(out), "<Note type=\"warning\">")
	assert.Contains(t, string(out), "</Note>")
}
