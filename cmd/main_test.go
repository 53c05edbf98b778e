package main

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())

	force, args, err := root.Find([]string{"migrate", "force", "3"})
	require.NoError(t, err)
	assert.Equal(t, "force", force.Name())
	assert.Equal(t, []string{"3"}, args)
}

func TestMigrateRequiresDirection(t *testing.T) {
	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"migrate"})

	assert.Error(t, root.Execute())
}

func TestMigrateForceRejectsNonNumericVersion(t *testing.T) {
	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"migrate", "force", "latest"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid version")
}
