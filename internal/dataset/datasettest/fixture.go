// Package datasettest provides a small synthetic dataset pair for tests:
// three Alabama counties at 10%, 35% and 70% plus one county (2013) with
// no education record, laid out as 100x100 squares along the x axis.
// Neighbouring squares share their vertical edge arcs; the two states
// (1: 1001-1005, 2: 2013) share only the x=300 edge.
package datasettest

import (
	_ "embed"
	"os"
	"path/filepath"
)

//go:embed testdata/education.json
var Education []byte

//go:embed testdata/counties.json
var Topology []byte

// Values maps each known county to its bachelorsOrHigher value.
var Values = map[int]float64{1001: 10, 1003: 35, 1005: 70}

// UnknownFIPS is present in the topology but absent from the education data.
const UnknownFIPS = 2013

// WriteFiles writes both datasets into dir and returns their paths.
func WriteFiles(dir string) (eduPath, topoPath string, err error) {
	eduPath = filepath.Join(dir, "education.json")
	topoPath = filepath.Join(dir, "counties.json")
	if err = os.WriteFile(eduPath, Education, 0o644); err != nil {
		return "", "", err
	}
	if err = os.WriteFile(topoPath, Topology, 0o644); err != nil {
		return "", "", err
	}
	return eduPath, topoPath, nil
}
