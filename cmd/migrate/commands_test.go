package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electronic_product/internal/migration/loader"
)

func TestRootCmd_Tree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"tables"},
		{"categories"},
		{"products"},
		{"all"},
		{"seed", "categories"},
		{"seed", "product-categories"},
	} {
		cmd, rest, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Empty(t, rest, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
		assert.NotNil(t, cmd.RunE, path)
	}
}

func TestRootCmd_Flags(t *testing.T) {
	root := newRootCmd()
	flags := root.PersistentFlags()
	for _, name := range []string{"env", "extra-file", "category-map", "admin-id", "batch-size"} {
		assert.NotNil(t, flags.Lookup(name), name)
	}
	assert.Equal(t, "1000", flags.Lookup("batch-size").DefValue)
	assert.Equal(t, 1000, loader.DefaultBatchSize)
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	root := newRootCmd()
	cmd, _, err := root.Find([]string{"tables"})
	require.NoError(t, err)
	assert.Error(t, cmd.Args(cmd, []string{"extra"}))
}
