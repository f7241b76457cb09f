package commands

import (
	"github.com/mosaicnetworks/hashgraph-sdk/src/sdk"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	_config = NewDefaultCLIConfig()
)

func init() {
	AddClientFlags(RootCmd)
}

//RootCmd is the root command for the SDK command line client
var RootCmd = &cobra.Command{
	Use:               "hashgraph",
	Short:             "Ledger network client",
	TraverseChildren:  true,
	PersistentPreRunE: loadConfig,
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddClientFlags adds the flags shared by every command
func AddClientFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.String("datadir", _config.Client.DataDir, "Top-level directory for configuration and data")
	flags.String("log", _config.Client.LogLevel, "debug, info, warn, error, fatal, panic")
	flags.String("log-file", _config.Client.LogFile, "Also write JSON logs to this file")

	// Network
	flags.String("network", _config.Client.NetworkFile, "Address book, relative to datadir")
	flags.Duration("timeout", _config.Client.TCPTimeout, "TCP Timeout")
	flags.Int("max-pool", _config.Client.MaxPool, "Connection pool size max")
	flags.Int("max-nodes", _config.Client.MaxNodesPerTransaction, "Number of nodes a transaction is prepared for")

	// Operator
	flags.String("operator-id", _config.Client.OperatorID, "Account paying for transactions, as shard.realm.num")
	flags.String("operator-key", _config.Client.OperatorKeyfile, "Operator private key file, relative to datadir")

	// Retries
	flags.Int("max-attempts", _config.Client.MaxAttempts, "Max number of requests per transaction or query")
	flags.Duration("min-backoff", _config.Client.MinBackoff, "Wait before the first retry")
	flags.Duration("max-backoff", _config.Client.MaxBackoff, "Longest wait between two retries")
	flags.Float64("backoff-multiplier", _config.Client.BackoffMultiplier, "Growth factor of the wait between retries")
	flags.Duration("min-node-backoff", _config.Client.MinNodeBackoff, "How long a failing node is first avoided")
	flags.Duration("max-node-backoff", _config.Client.MaxNodeBackoff, "Longest time a failing node is avoided")
	flags.Duration("request-timeout", _config.Client.RequestTimeout, "Deadline of one request, retries included")
	flags.Duration("receipt-poll-interval", _config.Client.ReceiptPollInterval, "Wait between two receipt lookups")

	// Fees
	flags.Uint64("max-fee", _config.Client.MaxTransactionFee, "Fee offered by transactions")
	flags.Uint64("max-query-payment", _config.Client.MaxQueryPayment, "Most paid for a query without asking")
	flags.Duration("valid-duration", _config.Client.TransactionValidDuration, "Validity window of transactions")

	// Store
	flags.Bool("store", _config.Client.Store, "Keep a journal of transactions in badgerDB")
	flags.String("db", _config.Client.DatabaseDir, "Database directory")

	flags.Bool("wait", _config.Wait, "Wait for receipts")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.Client.SetDataDir(_config.Client.DataDir)

	logFields := logrus.Fields{
		"DataDir":        _config.Client.DataDir,
		"NetworkFile":    _config.Client.NetworkFile,
		"OperatorID":     _config.Client.OperatorID,
		"MaxAttempts":    _config.Client.MaxAttempts,
		"MinBackoff":     _config.Client.MinBackoff,
		"MaxBackoff":     _config.Client.MaxBackoff,
		"RequestTimeout": _config.Client.RequestTimeout,
		"TCPTimeout":     _config.Client.TCPTimeout,
		"MaxPool":        _config.Client.MaxPool,
		"Store":          _config.Client.Store,
		"LogLevel":       _config.Client.LogLevel,
	}

	if _config.Client.Store {
		logFields["DatabaseDir"] = _config.Client.DatabaseDir
	}

	_config.Client.Logger().WithFields(logFields).Debug(cmd.Name())

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/hashgraph.toml (.json, .yaml also work)
	viper.SetConfigName("hashgraph")
	viper.AddConfigPath(_config.Client.DataDir)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.Client.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.Client.Logger().Debugf("No config file found in: %s", _config.Client.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}

// newClient connects to the network of the address book.
func newClient() (*sdk.Client, error) {
	return sdk.NewClientFromConfig(&_config.Client)
}
