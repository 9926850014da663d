package encoding_test

import (
	"bytes"
	"testing"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

func encodeBytes(t *testing.T, text string, enc transform.Transformer) []byte {
	t.Helper()
	out, _, err := transform.Bytes(enc, []byte(text))
	require.NoError(t, err)
	return out
}

func TestDecode_UTF8Unchanged(t *testing.T) {
	dec := encoding.NewCharsetDecoder("")
	got, err := dec.Decode([]byte("import boto3\nclient = boto3.client('ec2')\n"))

	require.NoError(t, err)
	assert.Equal(t, "import boto3\nclient = boto3.client('ec2')\n", got.Text)
	assert.Equal(t, "utf-8", got.Encoding)
}

func TestDecode_StripsUTF8BOMAndNormalizesNewlines(t *testing.T) {
	dec := encoding.NewCharsetDecoder("")
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("line one\r\nline two\rline three")...)

	got, err := dec.Decode(input)

	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\nline three", got.Text)
	assert.True(t, got.Certain)
}

func TestDecode_UTF16LEWithBOM(t *testing.T) {
	dec := encoding.NewCharsetDecoder("")
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	input := append([]byte{0xFF, 0xFE}, encodeBytes(t, "public class Payroll {}", encoder)...)

	got, err := dec.Decode(input)

	require.NoError(t, err)
	assert.Contains(t, got.Encoding, "utf-16le")
	assert.True(t, got.Certain)
	assert.Equal(t, "public class Payroll {}", got.Text)
}

func TestDecode_DefaultEncodingFallback(t *testing.T) {
	dec := encoding.NewCharsetDecoder("windows-1252")
	input := encodeBytes(t, "msg='Gebühr fehlt'", charmap.Windows1252.NewEncoder())

	got, err := dec.Decode(input)

	require.NoError(t, err)
	assert.Equal(t, "msg='Gebühr fehlt'", got.Text)
	assert.True(t, got.Certain, "a configured fallback is treated as certain")
}

func TestIsBinary(t *testing.T) {
	dec := encoding.NewCharsetDecoder("")
	testCases := []struct {
		name    string
		content []byte
		want    bool
	}{
		{name: "empty", content: nil, want: false},
		{name: "python source", content: []byte("#!/usr/bin/python\nimport boto3\n"), want: false},
		{name: "java source", content: []byte("package com.acme;\npublic class A {}\n"), want: false},
		{name: "png header", content: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), want: true},
		{name: "mostly nulls", content: append([]byte("abc"), bytes.Repeat([]byte{0x00}, 200)...), want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dec.IsBinary(tc.content))
		})
	}
}
