package data

import (
	_ "embed"
)

// Products is the bundled listing dataset served when no persistent store is reachable.
//
//go:embed products.json
var Products []byte
