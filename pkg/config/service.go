package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/Alitek97/E-nergyFlow-sub000/pkg/pathing"
)

var (
	ActiveLedgerAPIConfig       *LedgerAPIConfig
	ActiveMirrorCollectorConfig *MirrorCollectorConfig
)

func LoadLedgerAPIConfig() error {
	configPath := filepath.Join(pathing.GetConfigDir(), "ledger_api.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &LedgerAPIConfig{
			ListenAddress: "0.0.0.0",
			ListenPort:    9047,
			UserID:        "operator",
			RemoteEnabled: false,
		}
		// Create file
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return err
		}
		defer cfgFile.Close()
		toml.NewEncoder(cfgFile).Encode(cfg)
		ActiveLedgerAPIConfig = cfg
		return nil
	}

	// Load existing config
	var config LedgerAPIConfig
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return err
	}
	ActiveLedgerAPIConfig = &config
	return nil
}

func LoadMirrorCollectorConfig() error {
	configPath := filepath.Join(pathing.GetConfigDir(), "mirror_collector.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &MirrorCollectorConfig{
			LedgerAPIHost: "localhost:9047",
			TLSEnabled:    false,
		}
		// Create file
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return err
		}
		defer cfgFile.Close()
		toml.NewEncoder(cfgFile).Encode(cfg)
		ActiveMirrorCollectorConfig = cfg
		return nil
	}

	// Load existing config
	var config MirrorCollectorConfig
	_, err := toml.DecodeFile(configPath, &config)
	if err != nil {
		return err
	}
	ActiveMirrorCollectorConfig = &config
	return nil
}
