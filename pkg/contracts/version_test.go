package contracts

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, ReportFormatVersion, info.ReportFormat)
}

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "dpwh v"+Version, GetVersionString())
	full := GetFullVersionString()
	assert.Contains(t, full, GetVersionString())
	assert.Contains(t, full, "reports: "+ReportFormatVersion)
}
