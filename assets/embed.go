package assets

import (
	_ "embed"
)

// CatalogYAML is the built-in item, workbench and map-location catalog used
// when no catalog path is configured.
//
//go:embed catalog.yaml
var CatalogYAML []byte
