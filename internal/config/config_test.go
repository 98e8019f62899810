package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/ftagmgr/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func Test_Load_Returns_Defaults_When_No_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, ".ftag.db", cfg.DBPath)
	assert.Equal(t, filepath.Join(dir, ".ftag.db"), cfg.DBPathAbs)
	assert.Equal(t, dir, cfg.EffectiveCwd)
	assert.Zero(t, cfg.LockWait)
	assert.False(t, cfg.ColorDisabled())
	assert.Empty(t, cfg.Sources.Global)
	assert.Empty(t, cfg.Sources.Project)
}

func Test_Load_Applies_Precedence_When_All_Sources_Set(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xdg := t.TempDir()

	writeFile(t, filepath.Join(xdg, "ftag", "config.json"), `{
		// global defaults
		"db_path": "global.db",
		"lock_timeout": "2s",
		"no_color": true,
	}`)
	writeFile(t, filepath.Join(dir, config.FileName), `{"db_path": "project.db", "no_color": false}`)

	env := map[string]string{"XDG_CONFIG_HOME": xdg}

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: env})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "project.db"), cfg.DBPathAbs)
	assert.Equal(t, 2*time.Second, cfg.LockWait)
	assert.False(t, cfg.ColorDisabled(), "project no_color=false overrides global")
	assert.Equal(t, filepath.Join(xdg, "ftag", "config.json"), cfg.Sources.Global)
	assert.Equal(t, filepath.Join(dir, config.FileName), cfg.Sources.Project)

	cfg, err = config.Load(config.LoadInput{WorkDirOverride: dir, Env: env, DBPathOverride: "/abs/cli.db"})
	require.NoError(t, err)

	assert.Equal(t, "/abs/cli.db", cfg.DBPathAbs)
}

func Test_Load_Uses_Home_When_XDG_Unset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	home := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "ftag", "config.json"), `{"db_path": "home.db"}`)

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{"HOME": home}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "home.db"), cfg.DBPathAbs)
}

func Test_Load_Returns_Error_When_Config_File_Invalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "EmptyDBPath", content: `{"db_path": ""}`, wantErr: config.ErrDBPathEmpty},
		{name: "BadJSONC", content: `{"db_path": `, wantErr: config.ErrConfigInvalid},
		{name: "WrongType", content: `{"db_path": 3}`, wantErr: config.ErrConfigInvalid},
		{name: "BadDuration", content: `{"lock_timeout": "soon"}`, wantErr: config.ErrLockTimeoutInvalid},
		{name: "NegativeDuration", content: `{"lock_timeout": "-1s"}`, wantErr: config.ErrLockTimeoutInvalid},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, config.FileName), testCase.content)

			_, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
			require.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func Test_Load_Returns_Error_When_Explicit_Config_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := config.Load(config.LoadInput{WorkDirOverride: dir, ConfigPath: "nope.json", Env: map[string]string{}})
	require.ErrorIs(t, err, config.ErrConfigFileNotFound)
}

func Test_Load_Reads_Explicit_Config_Instead_Of_Project_When_Flag_Set(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, config.FileName), `{"db_path": "project.db"}`)
	writeFile(t, filepath.Join(dir, "custom.json"), `{"db_path": "custom.db"}`)

	cfg, err := config.Load(config.LoadInput{WorkDirOverride: dir, ConfigPath: "custom.json", Env: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "custom.db"), cfg.DBPathAbs)
	assert.Equal(t, filepath.Join(dir, "custom.json"), cfg.Sources.Project)
}

func Test_SaveProject_Writes_Loadable_File_When_Called(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg := config.Default()
	cfg.DBPath = "tags.db"
	cfg.LockTimeout = "750ms"
	cfg.DBPathAbs = "/ignored"

	path, err := config.SaveProject(dir, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, config.FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "/ignored")

	loaded, err := config.Load(config.LoadInput{WorkDirOverride: dir, Env: map[string]string{}})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "tags.db"), loaded.DBPathAbs)
	assert.Equal(t, 750*time.Millisecond, loaded.LockWait)
}
