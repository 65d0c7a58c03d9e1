package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repoguard/fetcher"
	"repoguard/types"
)

func TestConfigScannerFindsDebugEnabled(t *testing.T) {
	s := NewConfigScanner()
	content := "ALLOWED_HOSTS = ['*']\nDEBUG = True\n"
	found := scanOne(t, s, "project/settings.py", content)

	var debug *types.Vulnerability
	for i := range found {
		if found[i].CWEID == "CWE-489" {
			debug = &found[i]
		}
	}
	require.NotNil(t, debug, "expected a debug mode finding")
	assert.Equal(t, types.SeverityHigh, debug.Severity)
	assert.Equal(t, types.ConfidenceHigh, debug.Confidence)
	assert.Equal(t, "insecure_configuration", debug.VulnerabilityType)
	assert.Equal(t, 2, debug.Line)

	// the wildcard host also fires
	assert.Len(t, found, 2)
}

func TestConfigScannerIgnoresDebugFalse(t *testing.T) {
	s := NewConfigScanner()
	assert.Empty(t, scanOne(t, s, "project/settings.py", "DEBUG = False\n"))
}

func TestConfigScannerDockerfile(t *testing.T) {
	s := NewConfigScanner()
	content := "FROM python:latest\nENV DB_PASSWORD=hunter22secret\nUSER root\n"
	found := scanOne(t, s, "deploy/Dockerfile", content)

	ids := map[string]bool{}
	for _, v := range found {
		ids[v.CWEID] = true
	}
	assert.True(t, ids["CWE-1104"], "unpinned base image")
	assert.True(t, ids["CWE-798"], "secret baked into image")
	assert.True(t, ids["CWE-250"], "root user")
}

func TestConfigScannerKubernetes(t *testing.T) {
	s := NewConfigScanner()
	content := "spec:\n  containers:\n  - name: app\n    securityContext:\n      privileged: true\n"
	found := scanOne(t, s, "k8s/deployment.yaml", content)
	require.Len(t, found, 1)
	assert.Equal(t, types.SeverityHigh, found[0].Severity)
	assert.Equal(t, "CWE-250", found[0].CWEID)
}

func TestConfigScannerApplicability(t *testing.T) {
	s := NewConfigScanner()
	assert.True(t, s.Applicable(fetcher.FileInfo{Path: "settings.py"}))
	assert.True(t, s.Applicable(fetcher.FileInfo{Path: ".env.production"}))
	assert.True(t, s.Applicable(fetcher.FileInfo{Path: "Dockerfile"}))
	assert.False(t, s.Applicable(fetcher.FileInfo{Path: "app/views.rb"}))
}

func TestConfigScannerDedupesRepeatedMatches(t *testing.T) {
	s := NewConfigScanner()
	// same finding on the same line reported once
	content := "DEBUG = True\n"
	first := scanOne(t, s, "settings.py", content)
	second := scanOne(t, s, "settings.py", content)
	assert.Equal(t, len(first), len(second))
	assert.Len(t, first, 1)
}
