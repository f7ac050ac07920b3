package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveConfigDir(t *testing.T) {
	assert.Equal(t, "/tmp/conf", ResolveConfigDir("/tmp/conf"))

	t.Setenv(EnvConfigDir, "/env/conf")
	assert.Equal(t, "/env/conf", ResolveConfigDir(""))
	assert.Equal(t, "/flag/conf", ResolveConfigDir("/flag/conf"))

	t.Setenv(EnvConfigDir, "")
	assert.Equal(t, DefaultConfigDirName, ResolveConfigDir(""))
}

func TestResolveProject(t *testing.T) {
	t.Setenv(EnvProject, "")

	assert.Equal(t, DefaultProjectName, ResolveProject("", ""))
	assert.Equal(t, "configured.gpkg", ResolveProject("", "configured.gpkg"))
	assert.Equal(t, "flag.gpkg", ResolveProject("flag.gpkg", "configured.gpkg"))

	t.Setenv(EnvProject, "env.gpkg")
	assert.Equal(t, "env.gpkg", ResolveProject("", "configured.gpkg"))
	assert.Equal(t, "flag.gpkg", ResolveProject("flag.gpkg", "configured.gpkg"))
}

func TestDefaultConfigDir_LinuxXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := DefaultConfigDir()
	if err != nil {
		t.Skipf("no config dir on this platform: %v", err)
	}
	assert.NotEmpty(t, dir)
	assert.Contains(t, dir, "brat")
}
