package startup

import (
	"fmt"
	"os"

	"github.com/coldloop/cooler-controller/internal/config"
)

// InstallService writes a systemd unit for the controller daemon.
func InstallService(cfg config.Config) error {
	unit := fmt.Sprintf(`[Unit]
Description=Liquid cooler controller
After=network.target

[Service]
Type=simple
ExecStart=/usr/local/bin/cooler-controller -db-file %s -config-file %s
Restart=on-failure
RestartSec=5s

[Install]
WantedBy=multi-user.target
`, cfg.DBFile, cfg.ConfigFile)

	return os.WriteFile(cfg.MainServicePath, []byte(unit), 0644)
}
