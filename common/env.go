// Package common holds configuration shared by the warpjar CLI and daemon.
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Environment variable names for configuration.
const (
	// ConfigDirEnv overrides the directory holding the vault and key file.
	ConfigDirEnv = "WARPJAR_CONFIG_DIR"

	// DebugEnv enables debug logging.
	DebugEnv = "WARPJAR_DEBUG"

	// VaultKeyEnv supplies the vault key as 64 hex characters, bypassing the keyring.
	VaultKeyEnv = "WARPJAR_VAULT_KEY"

	// RPCSecretEnv is the bearer token required by the JSON-RPC endpoints.
	RPCSecretEnv = "WARPJAR_RPC_SECRET"

	// RPCPortEnv is the TCP port the daemon listens on.
	RPCPortEnv = "WARPJAR_RPC_PORT"

	// ProxyEnv is the proxy URL used by fetch.
	ProxyEnv = "WARPJAR_PROXY"
)

// AppDirName is the directory created under the user config dir.
const AppDirName = "warpjar"

var userConfigDir = os.UserConfigDir

// ConfigDir returns the warpjar config directory, creating it with 0700
// permissions if needed.
func ConfigDir() (string, error) {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		base, err := userConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(base, AppDirName)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

// DebugEnabled reports whether WARPJAR_DEBUG is set to a true value.
func DebugEnabled() bool {
	v, err := strconv.ParseBool(os.Getenv(DebugEnv))
	return err == nil && v
}
