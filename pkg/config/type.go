package config

type LedgerAPIConfig struct {
	ListenAddress string `toml:"listen_address"`
	ListenPort    int    `toml:"listen_port"`
	// UserID identifies the operator account in the remote store.
	UserID string `toml:"user_id"`
	// RemoteEnabled switches on the relational store; without it the ledger
	// runs local-only.
	RemoteEnabled bool `toml:"remote_enabled"`
}

type MirrorCollectorConfig struct {
	LedgerAPIHost string `toml:"ledger_api_host"`
	TLSEnabled    bool   `toml:"tls_enabled"`
}
