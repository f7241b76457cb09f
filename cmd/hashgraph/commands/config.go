package commands

import (
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/config"
	"github.com/mosaicnetworks/hashgraph-sdk/src/localnet"
)

//CLIConfig contains the configuration shared by all the commands
type CLIConfig struct {
	Client config.Config `mapstructure:",squash"`

	// Wait makes the transaction commands wait for the receipt.
	Wait bool `mapstructure:"wait"`

	// Localnet settings
	ListenHost     string        `mapstructure:"listen-host"`
	BasePort       int           `mapstructure:"base-port"`
	Nodes          int           `mapstructure:"nodes"`
	ConsensusDelay time.Duration `mapstructure:"consensus-delay"`
	InitialBalance uint64        `mapstructure:"initial-balance"`
}

//NewDefaultCLIConfig creates a CLIConfig with default values
func NewDefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		Client:         *config.NewDefaultConfig(),
		Wait:           true,
		ListenHost:     "127.0.0.1",
		BasePort:       50211,
		Nodes:          3,
		ConsensusDelay: localnet.DefaultConsensusDelay,
		InitialBalance: 100000000000,
	}
}
