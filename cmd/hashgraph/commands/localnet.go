package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/localnet"
	"github.com/mosaicnetworks/hashgraph-sdk/src/network"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	localFiles  []string
	localTopics []string
)

//NewLocalnetCmd returns the command that starts a simulated network
func NewLocalnetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localnet",
		Short: "Run a simulated ledger network",
		Long: `Run a simulated ledger network.

The nodes listen on consecutive ports and share one ledger. The address book
is written where the other commands look for it, and the operator account is
created with the key of the operator keyfile, generating one if needed.`,
		RunE: runLocalnet,
	}
	AddLocalnetFlags(cmd)
	return cmd
}

//AddLocalnetFlags adds flags to the localnet command
func AddLocalnetFlags(cmd *cobra.Command) {
	cmd.Flags().String("listen-host", _config.ListenHost, "Host the nodes listen on")
	cmd.Flags().Int("base-port", _config.BasePort, "Port of the first node")
	cmd.Flags().Int("nodes", _config.Nodes, "Number of nodes")
	cmd.Flags().Duration("consensus-delay", _config.ConsensusDelay, "Time for a transaction to reach consensus")
	cmd.Flags().Uint64("initial-balance", _config.InitialBalance, "Balance of the operator account")
	cmd.Flags().StringSliceVar(&localFiles, "file", nil, "File to create, as shard.realm.num")
	cmd.Flags().StringSliceVar(&localTopics, "topic", nil, "Topic to create, as shard.realm.num")
}

func runLocalnet(cmd *cobra.Command, args []string) error {
	logger := _config.Client.Logger()

	if _config.Client.OperatorID == "" {
		return fmt.Errorf("--operator-id is required")
	}
	operatorID, err := hapi.AccountIDFromString(_config.Client.OperatorID)
	if err != nil {
		return err
	}

	key, err := operatorKey()
	if err != nil {
		return err
	}

	ledgerConf := localnet.DefaultLedgerConfig()
	ledgerConf.ConsensusDelay = _config.ConsensusDelay
	ledger := localnet.NewLedger(ledgerConf, logger.WithField("component", "ledger"))

	if err := ledger.CreateAccount(operatorID, key.PublicKey(), _config.InitialBalance); err != nil {
		return err
	}
	for _, f := range localFiles {
		id, err := hapi.FileIDFromString(f)
		if err != nil {
			return err
		}
		ledger.CreateFile(id)
	}
	for _, t := range localTopics {
		id, err := hapi.TopicIDFromString(t)
		if err != nil {
			return err
		}
		ledger.CreateTopic(id)
	}

	addrs := make([]string, _config.Nodes)
	for i := range addrs {
		addrs[i] = fmt.Sprintf("%s:%d", _config.ListenHost, _config.BasePort+i)
	}

	ln, err := localnet.NewTCP(addrs, ledger, _config.Client.TCPTimeout, logger)
	if err != nil {
		return err
	}
	defer ln.Close()

	book := network.NewAddressBook(_config.Client.NetworkPath())
	if err := book.Write(ln.NetworkNodes()); err != nil {
		return fmt.Errorf("writing address book: %s", err)
	}

	logger.WithFields(logrus.Fields{
		"nodes":    len(ln.Nodes),
		"network":  _config.Client.NetworkPath(),
		"operator": operatorID,
	}).Info("Localnet running")

	//Prepare sigCh to relay SIGINT and SIGTERM system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh

	logger.Info("Localnet stopping")

	return nil
}

// operatorKey reads the operator key, creating it if there is none.
func operatorKey() (keys.PrivateKey, error) {
	keyfile := keys.NewSimpleKeyfile(_config.Client.Keyfile())

	if _, err := os.Stat(_config.Client.Keyfile()); os.IsNotExist(err) {
		key, err := keys.GenerateEd25519Key()
		if err != nil {
			return keys.PrivateKey{}, err
		}
		if err := os.MkdirAll(_config.Client.DataDir, 0700); err != nil {
			return keys.PrivateKey{}, err
		}
		if err := keyfile.WriteKey(key); err != nil {
			return keys.PrivateKey{}, err
		}
		_config.Client.Logger().WithField("keyfile", _config.Client.Keyfile()).Info("Generated operator key")
		return key, nil
	}

	return keyfile.ReadKey()
}
