package main

import (
	"crypto/ed25519"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/code-payments/signal-pool/pkg/solana"
	"github.com/code-payments/signal-pool/pkg/solana/signalpool"
)

// Config is loaded from the config file and the environment. Empty addresses
// fall back to the program's well known values.
type Config struct {
	LogLevel string `mapstructure:"log_level"`

	ProgramAddress    string `mapstructure:"program_address"`
	DexProgramAddress string `mapstructure:"dex_program_address"`

	// Owners of the protocol fee token accounts
	FeeWallet        string `mapstructure:"fee_wallet"`
	BuyAndBurnWallet string `mapstructure:"buy_and_burn_wallet"`
}

var defaultConfig = Config{
	LogLevel: "info",
}

func init() {
	bindEnv(viper.GetViper())
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	_ = v.BindEnv("program_address", "PROGRAM_ADDRESS")
	_ = v.BindEnv("dex_program_address", "DEX_PROGRAM_ADDRESS")

	_ = v.BindEnv("fee_wallet", "FEE_WALLET")
	_ = v.BindEnv("buy_and_burn_wallet", "BUY_AND_BURN_WALLET")
}

func loadConfig(v *viper.Viper, path string) (*Config, error) {
	// viper only reports a missing file when it had to search for one, so a
	// missing explicit path is treated the same way.
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to check if config exists")
	}

	err := v.ReadInConfig()
	_, isConfigNotFound := err.(viper.ConfigFileNotFoundError)
	if err != nil && !isConfigNotFound {
		return nil, errors.Wrap(err, "failed to load config")
	}

	config := defaultConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

func configureLogger(config *Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(strings.ToLower(config.LogLevel))
	if err != nil {
		logrus.StandardLogger().WithField("log_level", config.LogLevel).Warn("unknown log level, ignoring")
	} else {
		logrus.SetLevel(level)
	}

	// stdout is reserved for command output
	logrus.SetOutput(os.Stderr)
}

func (c *Config) programAddress() (ed25519.PublicKey, error) {
	return parseOrDefault("program_address", c.ProgramAddress, signalpool.PROGRAM_ID)
}

func (c *Config) dexProgramAddress() (ed25519.PublicKey, error) {
	return parseOrDefault("dex_program_address", c.DexProgramAddress, signalpool.DEX_PROGRAM_ID)
}

func (c *Config) wellKnownAccounts() (*signalpool.WellKnownAccounts, error) {
	feeWallet, err := parseOrDefault("fee_wallet", c.FeeWallet, signalpool.DefaultWellKnownAccounts.FeeWallet)
	if err != nil {
		return nil, err
	}
	buyAndBurnWallet, err := parseOrDefault("buy_and_burn_wallet", c.BuyAndBurnWallet, signalpool.DefaultWellKnownAccounts.BuyAndBurnWallet)
	if err != nil {
		return nil, err
	}

	return &signalpool.WellKnownAccounts{
		FeeWallet:        feeWallet,
		BuyAndBurnWallet: buyAndBurnWallet,
		Deriver:          signalpool.DefaultWellKnownAccounts.Deriver,
	}, nil
}

func parseOrDefault(name, value string, fallback ed25519.PublicKey) (ed25519.PublicKey, error) {
	if len(value) == 0 {
		return fallback, nil
	}

	pub, err := solana.ParsePublicKey(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", name)
	}
	return pub, nil
}
