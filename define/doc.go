// Package define builds symbol tables of compile-time defines for the
// transformation pipeline.
//
// A table maps free-variable names (and dotted member paths like
// process.env.NODE_ENV) to literal values. Tables are assembled from YAML
// documents and from NAME=value command-line overrides.
//
// String values wrapped in {{ ... }} are evaluated as expr-lang expressions
// against a built-in environment providing process environment access,
// host and platform information, and path manipulation helpers:
//
//	API_HOST: '{{ env("DEPLOY_HOST") }}'
//	IS_LINUX: '{{ platform.OS == "linux" }}'
//	BIN_PATH: '{{ mung.prefix(env("PATH"), path.abs("./bin")) }}'
package define
