package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/praetorian-inc/beaconscan"
	"github.com/praetorian-inc/beaconscan/pkg/serve"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSearch(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	inputPath = examplePath
	searchBound = 20
	searchWorkers = 2
	searchTimeout = 10 * time.Second
	searchFormat = "human"
	searchColor = "never"

	require.NoError(t, runSearch(cmd, nil))
	assert.Equal(t, "Uncovered position: (14, 11)\n", buf.String())
}

func TestRunSearchJSON(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	inputPath = examplePath
	searchBound = 20
	searchWorkers = 0
	searchTimeout = 0
	searchFormat = "json"

	require.NoError(t, runSearch(cmd, nil))

	var data serve.GapData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, serve.GapData{X: 14, Y: 11}, data)
}

func TestRunSearchAmbiguous(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})

	inputPath = examplePath
	searchBound = 40
	searchTimeout = 0
	searchFormat = "human"

	err := runSearch(cmd, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, beaconscan.ErrAmbiguousResult)
	assert.Contains(t, err.Error(), "searching [0, 40]")
}
