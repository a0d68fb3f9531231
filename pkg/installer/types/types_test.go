package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageDescriptorRepoTag(t *testing.T) {
	descriptor := ImageDescriptor{
		Repo: "acme/app",
		Tags: map[string]string{
			"amd64": "1.0",
			"arm64": "1.0-arm",
		},
	}

	tests := []struct {
		name     string
		arch     string
		expected string
		found    bool
	}{
		{"matching amd64", "amd64", "acme/app:1.0", true},
		{"matching arm64", "arm64", "acme/app:1.0-arm", true},
		{"missing architecture", "riscv64", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repoTag, ok := descriptor.RepoTag(tt.arch)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, repoTag)
		})
	}
}

func TestImageDescriptorRepoTag_NoTags(t *testing.T) {
	descriptor := ImageDescriptor{Repo: "acme/app"}

	_, ok := descriptor.RepoTag("amd64")
	assert.False(t, ok)
}
