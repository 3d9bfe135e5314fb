package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/fgeck/shutdown-timer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_LoadReader_MinimalConfig(t *testing.T) {
	yaml := `
power:
  platform: windows
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "windows", cfg.Power.Platform)
	// Check defaults
	assert.Equal(t, "shutdown.exe", cfg.Power.Command)
	assert.True(t, cfg.Power.ForceRestart)
	assert.Equal(t, []int{1116}, cfg.Power.Patterns.BenignExitCodes)
	assert.Equal(t, []string{"no shutdown was in progress"}, cfg.Power.Patterns.BenignMessages)
	assert.Equal(t, []int{1314}, cfg.Power.Patterns.PrivilegeExitCodes)
	assert.Equal(t, []string{"required privilege is not held"}, cfg.Power.Patterns.PrivilegeMessages)
	assert.Equal(t, "auto", cfg.Display.Color)
	assert.True(t, cfg.Display.ClearScreen)
	assert.True(t, cfg.Display.PauseOnExit)
}

func TestParser_LoadReader_FullConfig(t *testing.T) {
	yaml := `
power:
  platform: linux
  command: /usr/sbin/shutdown
  firmware_command: /usr/bin/systemctl
  force_restart: false
  benign_exit_codes: []
  benign_messages:
    - "nothing to cancel"
  privilege_exit_codes:
    - 1
  privilege_messages:
    - "access denied"
    - "interactive authentication required"

display:
  color: never
  clear_screen: false
  pause_on_exit: false
`
	parser := NewParser()
	cfg, err := parser.LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "linux", cfg.Power.Platform)
	assert.Equal(t, "/usr/sbin/shutdown", cfg.Power.Command)
	assert.Equal(t, "/usr/bin/systemctl", cfg.Power.FirmwareCommand)
	assert.False(t, cfg.Power.ForceRestart)
	assert.Empty(t, cfg.Power.Patterns.BenignExitCodes)
	assert.Equal(t, []string{"nothing to cancel"}, cfg.Power.Patterns.BenignMessages)
	assert.Equal(t, []int{1}, cfg.Power.Patterns.PrivilegeExitCodes)
	assert.Len(t, cfg.Power.Patterns.PrivilegeMessages, 2)
	assert.Equal(t, "never", cfg.Display.Color)
	assert.False(t, cfg.Display.ClearScreen)
	assert.False(t, cfg.Display.PauseOnExit)
}

func TestParser_LoadReader_LinuxDefaults(t *testing.T) {
	yaml := `
power:
  platform: linux
`
	cfg, err := NewParser().LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, "shutdown", cfg.Power.Command)
	assert.Equal(t, "systemctl", cfg.Power.FirmwareCommand)
	assert.Empty(t, cfg.Power.Patterns.BenignExitCodes)
	assert.Empty(t, cfg.Power.Patterns.PrivilegeExitCodes)
	assert.Contains(t, cfg.Power.Patterns.PrivilegeMessages, "access denied")
	assert.Contains(t, cfg.Power.Patterns.PrivilegeMessages, "interactive authentication required")
	assert.Contains(t, cfg.Power.Patterns.PrivilegeMessages, "must be root")
}

func TestParser_LoadReader_PatternsOverrideLinuxDefaults(t *testing.T) {
	yaml := `
power:
  platform: linux
  privilege_messages:
    - "zugriff verweigert"
`
	cfg, err := NewParser().LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, []string{"zugriff verweigert"}, cfg.Power.Patterns.PrivilegeMessages)
	assert.Equal(t, []string{"no shutdown was in progress"}, cfg.Power.Patterns.BenignMessages)
}

func TestDefaultPatterns(t *testing.T) {
	windows := DefaultPatterns("windows")
	assert.Equal(t, []int{ErrorNoShutdownInProgress}, windows.BenignExitCodes)
	assert.Equal(t, []int{ErrorPrivilegeNotHeld}, windows.PrivilegeExitCodes)

	linux := DefaultPatterns("linux")
	assert.Empty(t, linux.PrivilegeExitCodes)
	assert.Subset(t, linux.PrivilegeMessages, []string{"access denied", "interactive authentication required", "must be root"})
}

func TestParser_LoadReader_PlatformCaseInsensitive(t *testing.T) {
	cfg, err := NewParser().LoadReader("power:\n  platform: Windows\n")

	require.NoError(t, err)
	assert.Equal(t, "windows", cfg.Power.Platform)
}

func TestParser_LoadReader_AutoPlatform(t *testing.T) {
	if runtime.GOOS != "windows" && runtime.GOOS != "linux" {
		t.Skip("auto platform only resolves to a supported value on windows and linux")
	}

	cfg, err := NewParser().LoadReader("power:\n  platform: auto\n")

	require.NoError(t, err)
	assert.Equal(t, runtime.GOOS, cfg.Power.Platform)
}

func TestParser_LoadReader_InvalidPlatform(t *testing.T) {
	_, err := NewParser().LoadReader("power:\n  platform: plan9\n")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "power.platform must be one of")
}

func TestParser_LoadReader_InvalidColor(t *testing.T) {
	yaml := `
power:
  platform: windows
display:
  color: rainbow
`
	_, err := NewParser().LoadReader(yaml)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "display.color must be one of")
}

func TestParser_LoadReader_EmptyFirmwareCommandOnLinux(t *testing.T) {
	yaml := `
power:
  platform: linux
  firmware_command: ""
`
	_, err := NewParser().LoadReader(yaml)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "power.firmware_command is required")
}

func TestParser_LoadReader_InvalidYAML(t *testing.T) {
	_, err := NewParser().LoadReader("power: [unclosed")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestParser_LoadReader_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_SHUTDOWN_TOOL", `C:\Windows\System32\shutdown.exe`)

	yaml := `
power:
  platform: windows
  command: "${TEST_SHUTDOWN_TOOL}"
`
	cfg, err := NewParser().LoadReader(yaml)

	require.NoError(t, err)
	assert.Equal(t, `C:\Windows\System32\shutdown.exe`, cfg.Power.Command)
}

func TestParser_LoadDefaults_EnvOverride(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMER_POWER_PLATFORM", "linux")
	t.Setenv("SHUTDOWN_TIMER_DISPLAY_COLOR", "always")

	cfg, err := NewParser().LoadDefaults()

	require.NoError(t, err)
	assert.Equal(t, "linux", cfg.Power.Platform)
	assert.Equal(t, "shutdown", cfg.Power.Command)
	assert.Equal(t, "always", cfg.Display.Color)
}

func TestParser_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
power:
  platform: windows
display:
  pause_on_exit: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewParser().LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "windows", cfg.Power.Platform)
	assert.False(t, cfg.Display.PauseOnExit)
}

func TestParser_LoadFile_NotFound(t *testing.T) {
	_, err := NewParser().LoadFile("/nonexistent/config.yaml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	valid := func() *models.AppConfig {
		return &models.AppConfig{
			Power: models.PowerConfig{
				Platform:        "linux",
				Command:         "shutdown",
				FirmwareCommand: "systemctl",
			},
			Display: models.DisplaySettings{Color: "auto"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *models.AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(cfg *models.AppConfig) {}},
		{name: "empty command", mutate: func(cfg *models.AppConfig) { cfg.Power.Command = "" }, wantErr: "power.command is required"},
		{name: "bad platform", mutate: func(cfg *models.AppConfig) { cfg.Power.Platform = "darwin" }, wantErr: "power.platform"},
		{name: "bad color", mutate: func(cfg *models.AppConfig) { cfg.Display.Color = "" }, wantErr: "display.color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration is nil")
}
