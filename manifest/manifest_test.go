package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pathsentinel/icc/manifest"
)

func TestStatic_UnknownRoleReturnsEmptySet(t *testing.T) {
	var s manifest.Static
	assert.Empty(t, s.ActivityNames())
	assert.Empty(t, s.ServiceNames())
	assert.Empty(t, s.ReceiverNames())
	assert.Empty(t, s.ProviderNames())
	assert.Empty(t, s.ProviderAuthorities())
	assert.False(t, s.Exported("com.example.Unknown"))
	assert.Empty(t, s.Permissions("com.example.Unknown"))
}

func TestStatic_ExportedAndPermissions(t *testing.T) {
	s := manifest.Static{
		ExportedComponents:   map[string]bool{"com.example.Svc": true},
		ComponentPermissions: map[string][]string{"com.example.Svc": {"com.example.permission.USE"}},
	}
	assert.True(t, s.Exported("com.example.Svc"))
	assert.False(t, s.Exported("com.example.Other"))
	assert.Equal(t, []string{"com.example.permission.USE"}, s.Permissions("com.example.Svc"))
}

func TestStatic_ReturnsDefensiveCopies(t *testing.T) {
	s := manifest.Static{
		Services:    []string{"com.example.Svc"},
		Authorities: map[string]string{"com.example.provider": "com.example.Provider"},
	}

	names := s.ServiceNames()
	names[0] = "mutated"
	assert.Equal(t, "com.example.Svc", s.ServiceNames()[0], "caller mutation of the returned slice must not leak back")

	auth := s.ProviderAuthorities()
	auth["com.example.provider"] = "mutated"
	assert.Equal(t, "com.example.Provider", s.ProviderAuthorities()["com.example.provider"], "caller mutation of the returned map must not leak back")
}
