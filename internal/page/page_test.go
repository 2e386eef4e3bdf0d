package page

import (
	"bytes"
	"strings"
	"testing"

	"edu-choropleth/internal/colorscale"
	"edu-choropleth/internal/dataset"
	"edu-choropleth/internal/dataset/datasettest"
	"edu-choropleth/internal/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_Loading(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, View{}))
	out := buf.String()
	assert.Contains(t, out, `<div id="loading">Loading...</div>`)
	assert.NotContains(t, out, `class="county"`)
	assert.NotContains(t, out, `<div id="tooltip"`)
	assert.Contains(t, out, "<title>"+scene.Title+"</title>")
}

func TestWrite_Ready(t *testing.T) {
	snap, err := dataset.Build(datasettest.Education, datasettest.Topology)
	require.NoError(t, err)
	s, err := scene.Build(snap, colorscale.DefaultThreshold(), scene.DefaultViewport())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, View{Scene: s, Scale: "threshold", Scales: colorscale.Names(), Version: snap.Version}))
	out := buf.String()
	assert.NotContains(t, out, "Loading...")
	assert.NotContains(t, out, "<?xml")
	assert.Equal(t, 4, strings.Count(out, `class="county"`))
	assert.Equal(t, 1, strings.Count(out, `id="tooltip"`))
	assert.Equal(t, 1, strings.Count(out, `id="legend"`))
	assert.Contains(t, out, `<a href="/?scale=threshold" class="active">threshold</a>`)
	assert.Contains(t, out, "var OX=10,OY=-28")
}
