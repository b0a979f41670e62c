package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags(t *testing.T) {
	t.Helper()
	configPath = ""
	templateName = ""
	listTemplates = false
	readDirs = nil
	writeDirs = nil
	allowNetwork = false
}

func TestResolvePolicyFromFlags(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	writeDirs = []string{dir}
	allowNetwork = true

	policy, err := resolvePolicy()
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, policy.Write)
	assert.True(t, policy.Network)
}

func TestResolvePolicyFromTemplate(t *testing.T) {
	resetFlags(t)
	templateName = "default-deny"

	policy, err := resolvePolicy()
	require.NoError(t, err)
	assert.Empty(t, policy.Write)
	assert.False(t, policy.Network)
}

func TestResolvePolicyFromConfigFile(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "policy.jsonc")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"read": [], "write": ["`+dir+`"], "network": false}`), 0o644))
	configPath = cfgPath

	policy, err := resolvePolicy()
	require.NoError(t, err)
	assert.Equal(t, []string{dir}, policy.Write)
}

func TestResolvePolicyUnknownTemplate(t *testing.T) {
	resetFlags(t)
	templateName = "does-not-exist"

	_, err := resolvePolicy()
	assert.Error(t, err)
}
