package assembler

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRenderManifest(t *testing.T) {
	got := string(renderManifest("com.example.server.ServerNodeKt", map[string]string{
		"Main-Class":             "ignored",
		"Implementation-Version": "1.0-SNAPSHOT",
		"Created-By":             "shipgrid",
	}))

	want := "Manifest-Version: 1.0\r\n" +
		"Main-Class: com.example.server.ServerNodeKt\r\n" +
		"Created-By: shipgrid\r\n" +
		"Implementation-Version: 1.0-SNAPSHOT\r\n" +
		"\r\n"
	assert.Equal(t, want, got)
}

func TestRenderManifest_WrapsLongLines(t *testing.T) {
	long := "com.example." + strings.Repeat("verylongpackage.", 8) + "Main"
	got := string(renderManifest(long, nil))

	lines := strings.Split(strings.TrimSuffix(got, "\r\n\r\n"), "\r\n")
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), maxManifestLine)
	}

	var joined strings.Builder
	for i, l := range lines[1:] {
		if i > 0 {
			l = strings.TrimPrefix(l, " ")
		}
		joined.WriteString(l)
	}
	assert.Equal(t, "Main-Class: "+long, joined.String())
}

func TestRenderManifest_WrapKeepsRunesWhole(t *testing.T) {
	// "Implementation-Title: " is 22 bytes; 49 ASCII bytes put the
	// two-byte "é" across the 72-byte limit.
	value := strings.Repeat("a", 49) + "é" + strings.Repeat("b", 10)
	got := string(renderManifest("Main", map[string]string{"Implementation-Title": value}))

	lines := strings.Split(strings.TrimSuffix(got, "\r\n\r\n"), "\r\n")
	for _, l := range lines {
		assert.True(t, utf8.ValidString(l), "line %q splits a character", l)
		assert.LessOrEqual(t, len(l), maxManifestLine)
	}
	assert.Equal(t, "Implementation-Title: "+strings.Repeat("a", 49), lines[2])
	assert.Equal(t, " é"+strings.Repeat("b", 10), lines[3])
}
