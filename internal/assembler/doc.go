// Package assembler builds self-contained runnable archives (fat jars) from an
// ordered list of classpath sources.
//
// Each source is either a directory tree, walked in lexical order, or a zip
// archive, expanded in its stored entry order. Paths are merged in
// declaration order under a duplicate policy; with the default "exclude"
// policy the first source to contribute a path wins and later copies are
// dropped without notice. The archive always starts with META-INF/MANIFEST.MF
// carrying Main-Class, so it can run with `java -jar`.
//
// Entry timestamps are pinned to 1980-02-01 unless PreserveTimestamps is set,
// which makes the output a pure function of the sources and the policy.
package assembler
