package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVersion_PrefersLdflags(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "v1.2.3"
	assert.Equal(t, "v1.2.3", resolveVersion())
}

func TestResolveVersion_DevBuildIsNeverEmpty(t *testing.T) {
	orig := version
	t.Cleanup(func() { version = orig })

	version = "dev"
	assert.NotEmpty(t, resolveVersion())
}
