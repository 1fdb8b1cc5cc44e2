package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Options Advisor Configuration

[selection]
# IV rank above this is a high-volatility regime (sell premium)
iv_high_threshold = 50.0
# IV rank below this is a low-volatility regime (buy premium)
iv_low_threshold = 25.0
# Strikes within this percent of spot classify as at-the-money
atm_threshold_pct = 2.0
# Liquidity floors applied to every candidate contract
min_open_interest = 10
min_volume = 5
min_mark_price = 0.01
# Credit spreads must collect at least this percent of width
min_credit_pct = 25.0
# Spread width by underlying price tier (points)
width_low_price_max = 5
width_mid_price = 5
width_high_price_max = 10
# Allowed deviation between target and realized width (fraction)
width_tolerance_pct = 0.20
# Expiration matching window in days
dte_tolerance = 3

[scoring]
# Composite score weights; should sum to 1.0
pop_weight = 0.30
rr_weight = 0.30
credit_weight = 0.25
liquidity_weight = 0.10
width_efficiency_weight = 0.05

[server]
host = "127.0.0.1"
port = 8080
allowed_origins = ["*"]

[database]
# SQLite database path; defaults under the config directory
path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
console = true
file = true
file_path = ""
max_size_mb = 100
max_backups = 7
max_age_days = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return fmt.Errorf("config file not found, created template at %s", path)
}
