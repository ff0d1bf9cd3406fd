// Package data provides embedded scenario files.
package data

import "embed"

// dataFS embeds all scenario YAML files from the data directory at build time.
//
//go:embed *.yaml
var dataFS embed.FS

// DefaultScenario is the scenario played when none is configured.
const DefaultScenario = "skirmish.yaml"

// FS returns the embedded filesystem containing scenarios.
func FS() embed.FS {
	return dataFS
}
