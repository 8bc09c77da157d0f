package web

import _ "embed"

// Index is the single-page browser front end.
//
//go:embed index.html
var Index []byte
