package config

import (
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/mosaicnetworks/hashgraph-sdk/src/backoff"
	"github.com/mosaicnetworks/hashgraph-sdk/src/common"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Default filenames.
const (
	// DefaultKeyfile is the default name of the file containing the operator's
	// private key
	DefaultKeyfile = "operator_key"

	// DefaultNetworkFile is the default name of the address book.
	DefaultNetworkFile = "network.json"

	// DefaultBadgerFile is the default name of the folder containing the Badger
	// journal
	DefaultBadgerFile = "journal_db"
)

// Default configuration values.
const (
	DefaultLogLevel                 = "info"
	DefaultMaxAttempts              = backoff.DefaultMaxAttempts
	DefaultMinBackoff               = backoff.DefaultMinBackoff
	DefaultMaxBackoff               = backoff.DefaultMaxBackoff
	DefaultBackoffMultiplier        = backoff.DefaultMultiplier
	DefaultMinNodeBackoff           = 8 * time.Second
	DefaultMaxNodeBackoff           = time.Hour
	DefaultRequestTimeout           = 2 * time.Minute
	DefaultTCPTimeout               = 10 * time.Second
	DefaultMaxPool                  = 2
	DefaultMaxNodesPerTransaction   = 3
	DefaultReceiptPollInterval      = 500 * time.Millisecond
	DefaultMaxTransactionFee        = 200000000
	DefaultMaxQueryPayment          = 100000000
	DefaultTransactionValidDuration = 120 * time.Second
	DefaultStore                    = false
)

// Config contains all the configuration properties of an SDK client.
type Config struct {
	// DataDir is the top-level directory containing the address book, the
	// operator key and the journal.
	DataDir string `mapstructure:"datadir"`

	// LogLevel determines the chattiness of the log output.
	LogLevel string `mapstructure:"log"`

	// LogFile, when set, receives a copy of every log line in JSON.
	LogFile string `mapstructure:"log-file"`

	// NetworkFile is the address book listing the nodes the client talks to.
	// Relative paths are resolved against DataDir.
	NetworkFile string `mapstructure:"network"`

	// OperatorID is the account paying for transactions and queries, in
	// shard.realm.num form.
	OperatorID string `mapstructure:"operator-id"`

	// OperatorKeyfile is the file containing the operator's private key.
	// Relative paths are resolved against DataDir.
	OperatorKeyfile string `mapstructure:"operator-key"`

	// MaxAttempts is the maximum number of requests sent for one transaction
	// chunk or query, across all nodes.
	MaxAttempts int `mapstructure:"max-attempts"`

	// MinBackoff is the wait before retrying a node that asked us to come back
	// later. It doubles, by BackoffMultiplier, on every attempt.
	MinBackoff time.Duration `mapstructure:"min-backoff"`

	// MaxBackoff caps the wait between two attempts.
	MaxBackoff time.Duration `mapstructure:"max-backoff"`

	// BackoffMultiplier is the growth factor of the backoff.
	BackoffMultiplier float64 `mapstructure:"backoff-multiplier"`

	// MinNodeBackoff is how long a node is avoided after its first failure. It
	// doubles with every consecutive failure of the same node.
	MinNodeBackoff time.Duration `mapstructure:"min-node-backoff"`

	// MaxNodeBackoff caps how long a failing node is avoided.
	MaxNodeBackoff time.Duration `mapstructure:"max-node-backoff"`

	// RequestTimeout bounds a whole Execute call, retries included, when the
	// caller's context has no deadline of its own.
	RequestTimeout time.Duration `mapstructure:"request-timeout"`

	// TCPTimeout is the I/O deadline of a single request to a node.
	TCPTimeout time.Duration `mapstructure:"timeout"`

	// MaxPool controls how many connections are pooled per node.
	MaxPool int `mapstructure:"max-pool"`

	// MaxNodesPerTransaction is how many nodes a transaction is prepared for
	// when the caller does not pick them. Zero means every node.
	MaxNodesPerTransaction int `mapstructure:"max-nodes"`

	// ReceiptPollInterval is the fixed wait between two receipt lookups while
	// a transaction has not reached consensus.
	ReceiptPollInterval time.Duration `mapstructure:"receipt-poll-interval"`

	// MaxTransactionFee is the fee offered by transactions that do not set
	// their own.
	MaxTransactionFee uint64 `mapstructure:"max-fee"`

	// MaxQueryPayment is the most the client pays for a single query without
	// an explicit payment.
	MaxQueryPayment uint64 `mapstructure:"max-query-payment"`

	// TransactionValidDuration is the validity window of new transactions.
	TransactionValidDuration time.Duration `mapstructure:"valid-duration"`

	// Store activates the persistent journal of submitted transactions.
	Store bool `mapstructure:"store"`

	// DatabaseDir is the directory containing the journal files.
	DatabaseDir string `mapstructure:"db"`

	logger *logrus.Logger
}

// NewDefaultConfig returns a config object with default values.
func NewDefaultConfig() *Config {
	config := &Config{
		DataDir:                  DefaultDataDir(),
		LogLevel:                 DefaultLogLevel,
		NetworkFile:              DefaultNetworkFile,
		OperatorKeyfile:          DefaultKeyfile,
		MaxAttempts:              DefaultMaxAttempts,
		MinBackoff:               DefaultMinBackoff,
		MaxBackoff:               DefaultMaxBackoff,
		BackoffMultiplier:        DefaultBackoffMultiplier,
		MinNodeBackoff:           DefaultMinNodeBackoff,
		MaxNodeBackoff:           DefaultMaxNodeBackoff,
		RequestTimeout:           DefaultRequestTimeout,
		TCPTimeout:               DefaultTCPTimeout,
		MaxPool:                  DefaultMaxPool,
		MaxNodesPerTransaction:   DefaultMaxNodesPerTransaction,
		ReceiptPollInterval:      DefaultReceiptPollInterval,
		MaxTransactionFee:        DefaultMaxTransactionFee,
		MaxQueryPayment:          DefaultMaxQueryPayment,
		TransactionValidDuration: DefaultTransactionValidDuration,
		Store:                    DefaultStore,
		DatabaseDir:              DefaultDatabaseDir(),
	}

	return config
}

// NewTestConfig returns a config object with values suited to tests: short
// backoffs and polling, and a logger writing to t.Log.
func NewTestConfig(t testing.TB, level logrus.Level) *Config {
	config := NewDefaultConfig()
	config.DataDir = t.TempDir()
	config.DatabaseDir = filepath.Join(config.DataDir, DefaultBadgerFile)
	config.MinBackoff = 5 * time.Millisecond
	config.MaxBackoff = 50 * time.Millisecond
	config.MinNodeBackoff = 50 * time.Millisecond
	config.MaxNodeBackoff = time.Second
	config.RequestTimeout = 10 * time.Second
	config.TCPTimeout = time.Second
	config.ReceiptPollInterval = 10 * time.Millisecond
	config.logger = common.NewTestLogger(t, level)
	return config
}

// SetDataDir sets the top-level directory, and updates the database directory
// if it is currently set to the default value. If the database directory is
// not currently the default, it means the user has explicitely set it to
// something else, so avoid changing it again here.
func (c *Config) SetDataDir(dataDir string) {
	c.DataDir = dataDir
	if c.DatabaseDir == DefaultDatabaseDir() {
		c.DatabaseDir = filepath.Join(dataDir, DefaultBadgerFile)
	}
}

// Keyfile returns the full path of the file containing the operator key.
func (c *Config) Keyfile() string {
	return c.resolve(c.OperatorKeyfile)
}

// NetworkPath returns the full path of the address book.
func (c *Config) NetworkPath() string {
	return c.resolve(c.NetworkFile)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, p)
}

// BackoffPolicy returns the retry policy described by the config.
func (c *Config) BackoffPolicy() backoff.Policy {
	return backoff.Policy{
		MaxAttempts: c.MaxAttempts,
		Initial:     c.MinBackoff,
		Max:         c.MaxBackoff,
		Multiplier:  c.BackoffMultiplier,
	}
}

// Logger returns a formatted logrus Entry, with prefix set to "hashgraph-sdk".
func (c *Config) Logger() *logrus.Entry {
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.Level = LogLevel(c.LogLevel)
		c.logger.Formatter = new(prefixed.TextFormatter)
		if c.LogFile != "" {
			c.logger.Hooks.Add(lfshook.NewHook(c.LogFile, &logrus.JSONFormatter{}))
		}
	}
	return c.logger.WithField("prefix", "hashgraph-sdk")
}

// DefaultDatabaseDir returns the default path for the badger database files.
func DefaultDatabaseDir() string {
	return filepath.Join(DefaultDataDir(), DefaultBadgerFile)
}

// DefaultDataDir return the default directory name for the top-level config
// based on the underlying OS, attempting to respect conventions.
func DefaultDataDir() string {
	// Try to place the data folder in the user's home dir
	home := HomeDir()
	if home != "" {
		if runtime.GOOS == "darwin" {
			return filepath.Join(home, ".HashgraphSDK")
		} else if runtime.GOOS == "windows" {
			return filepath.Join(home, "AppData", "Roaming", "HashgraphSDK")
		} else {
			return filepath.Join(home, ".hashgraph-sdk")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

// HomeDir returns the user's home directory.
func HomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// LogLevel parses a string into a Logrus log level.
func LogLevel(l string) logrus.Level {
	switch l {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.DebugLevel
	}
}
