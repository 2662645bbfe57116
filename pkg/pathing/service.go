package pathing

import (
	"log"
	"os"
	"path/filepath"
)

// Ensure directories exist on startup
func init() {
	// Directories that must exist:
	dirs := []string{
		GetDataDir(),
		GetDayStoreDir(),
	}

	// Create all directories
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			err := os.MkdirAll(dir, 0755)
			if err != nil {
				log.Fatal(err)
			}
		}
	}
}

func GetPlantDbPath() string {
	// Join path
	return filepath.Join(GetDataDir(), "plant-ledger.db")
}

// GetDayStoreDir holds the local day records and their index.
func GetDayStoreDir() string {
	return filepath.Join(GetDataDir(), "days")
}

func GetDataDir() string {
	return "/var/lib/plant_day_ledger"
}

func GetConfigDir() string {
	return "/etc/plant_day_ledger"
}
