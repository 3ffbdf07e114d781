package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FeeConfig carries the initial fee schedule written into state on first
// start. After bootstrap the owner governs fees through the ledger itself.
type FeeConfig struct {
	BaseSendFee   uint64 `toml:"BaseSendFee"`
	DelegationFee uint64 `toml:"DelegationFee"`
}

// QuotaConfig caps per-address send rates. Zero values disable the
// corresponding limit.
type QuotaConfig struct {
	MaxSendsPerEpoch     uint32 `toml:"MaxSendsPerEpoch"`
	MaxPerRecipientEpoch uint32 `toml:"MaxPerRecipientEpoch"`
	EpochSeconds         uint32 `toml:"EpochSeconds"`
}

// LogConfig controls the daemon's rotated log file. An empty path logs to
// stdout only.
type LogConfig struct {
	Path       string `toml:"Path"`
	MaxSizeMB  int    `toml:"MaxSizeMB"`
	MaxBackups int    `toml:"MaxBackups"`
	MaxAgeDays int    `toml:"MaxAgeDays"`
}

// AllocConfig seeds a genesis balance. Balance is a decimal string so large
// values survive TOML round-trips.
type AllocConfig struct {
	Address      string `toml:"Address"`
	Balance      string `toml:"Balance"`
	ProgramOwned bool   `toml:"ProgramOwned"`
}

type Config struct {
	RPCAddress    string        `toml:"RPCAddress"`
	DataDir       string        `toml:"DataDir"`
	NetworkName   string        `toml:"NetworkName"`
	Custody       string        `toml:"Custody"`
	PoolAddress   string        `toml:"PoolAddress"`
	OwnerAddress  string        `toml:"OwnerAddress"`
	AuthoritySeed string        `toml:"AuthoritySeed"`
	EventTail     int           `toml:"EventTail"`
	Fees          FeeConfig     `toml:"fees"`
	Quota         QuotaConfig   `toml:"quota"`
	Log           LogConfig     `toml:"log"`
	Alloc         []AllocConfig `toml:"alloc"`
}

// DefaultBaseSendFee is the bootstrap send fee in base units (0.1 unit at
// six decimals).
const DefaultBaseSendFee = 100000

// DefaultDelegationFee is the bootstrap delegation fee in base units.
const DefaultDelegationFee = 50000

// Load loads the configuration from the given path, creating a commented
// default file when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.RPCAddress) == "" {
		cfg.RPCAddress = "127.0.0.1:8645"
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		cfg.DataDir = "./relay_data"
	}
	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "relay-local"
	}
	if strings.TrimSpace(cfg.Custody) == "" {
		cfg.Custody = "pull"
	}
	if cfg.EventTail == 0 {
		cfg.EventTail = 512
	}
	if cfg.Fees.BaseSendFee == 0 {
		cfg.Fees.BaseSendFee = DefaultBaseSendFee
	}
	if cfg.Fees.DelegationFee == 0 {
		cfg.Fees.DelegationFee = DefaultDelegationFee
	}
	if cfg.Quota.EpochSeconds == 0 {
		cfg.Quota = QuotaConfig{
			MaxSendsPerEpoch:     200,
			MaxPerRecipientEpoch: 30,
			EpochSeconds:         3600,
		}
	}
}

// Validate rejects configurations the node cannot be wired from.
func (c *Config) Validate() error {
	custody := strings.ToLower(strings.TrimSpace(c.Custody))
	if custody != "pull" && custody != "push" {
		return fmt.Errorf("config: Custody must be \"pull\" or \"push\", got %q", c.Custody)
	}
	if strings.TrimSpace(c.PoolAddress) == "" {
		return fmt.Errorf("config: PoolAddress is required")
	}
	if strings.TrimSpace(c.OwnerAddress) == "" {
		return fmt.Errorf("config: OwnerAddress is required")
	}
	if custody == "push" && strings.TrimSpace(c.AuthoritySeed) == "" {
		return fmt.Errorf("config: AuthoritySeed is required on push deployments")
	}
	for i, alloc := range c.Alloc {
		if strings.TrimSpace(alloc.Address) == "" {
			return fmt.Errorf("config: alloc[%d]: Address is required", i)
		}
		if strings.TrimSpace(alloc.Balance) != "" {
			if _, ok := new(big.Int).SetString(strings.TrimSpace(alloc.Balance), 10); !ok {
				return fmt.Errorf("config: alloc[%d]: invalid balance %q", i, alloc.Balance)
			}
		}
	}
	return nil
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if _, err := file.WriteString("# relaychain node configuration\n# PoolAddress and OwnerAddress must be set before the node will start.\n\n"); err != nil {
		return nil, err
	}
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, fmt.Errorf("config: wrote default configuration to %s; fill in PoolAddress and OwnerAddress", path)
}
