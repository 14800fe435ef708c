/*
Package label provides a structured, type-safe representation for build
target identifiers, based on the canonical format `//package/path:name`.

A label always names exactly one target. The package path is the
slash-separated directory of the build file relative to the workspace root
(empty for the root package), and the name is the target's instance name
within that package. When the name is omitted, it defaults to the last
segment of the package path, e.g. `//tools/compiler` means
`//tools/compiler:compiler`.

This package enforces the identifier schema and centralizes all
formatting and parsing logic, improving maintainability and robustness.
*/
package label
