package assembler

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	manifestDir  = "META-INF/"
	manifestPath = "META-INF/MANIFEST.MF"
	// maxManifestLine is the byte limit for one manifest line, excluding
	// the line break.
	maxManifestLine = 72
)

// renderManifest produces a jar manifest with Main-Class set to the entry
// point. Extra attributes follow in key order; they cannot override
// Manifest-Version or Main-Class.
func renderManifest(entryPoint string, extra map[string]string) []byte {
	var b strings.Builder
	writeManifestLine(&b, "Manifest-Version", "1.0")
	writeManifestLine(&b, "Main-Class", entryPoint)

	keys := make([]string, 0, len(extra))
	for k := range extra {
		if strings.EqualFold(k, "Manifest-Version") || strings.EqualFold(k, "Main-Class") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeManifestLine(&b, k, extra[k])
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

// writeManifestLine wraps long lines with the continuation form used by jar
// manifests: CRLF followed by a single space.
func writeManifestLine(b *strings.Builder, key, value string) {
	line := key + ": " + value
	first := true
	for len(line) > 0 {
		limit := maxManifestLine
		if !first {
			limit-- // leading space
			b.WriteByte(' ')
		}
		n := len(line)
		if n > limit {
			n = limit
			// Never split a multi-byte character across lines.
			for n > 0 && !utf8.RuneStart(line[n]) {
				n--
			}
		}
		b.WriteString(line[:n])
		b.WriteString("\r\n")
		line = line[n:]
		first = false
	}
}
