package roiatlas

import _ "embed"

// README is the project documentation shipped with the binaries.
//
//go:embed README.md
var README []byte
