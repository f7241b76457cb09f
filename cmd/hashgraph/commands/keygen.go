package commands

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"

	"github.com/mosaicnetworks/hashgraph-sdk/src/crypto/keys"
	"github.com/spf13/cobra"
)

var (
	keyType    string
	pubKeyFile string
)

// NewKeygenCmd produces a KeygenCmd which create a key pair
func NewKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create new operator key pair",
		RunE:  keygen,
	}

	AddKeygenFlags(cmd)

	return cmd
}

//AddKeygenFlags adds flags to the keygen command
func AddKeygenFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&keyType, "type", keys.Ed25519.String(), "Key type: ed25519 or ecdsa")
	cmd.Flags().StringVar(&pubKeyFile, "pub", "", "File where the public key will be written")
}

func keygen(cmd *cobra.Command, args []string) error {
	privKeyFile := _config.Client.Keyfile()

	if _, err := os.Stat(privKeyFile); err == nil {
		return fmt.Errorf("A key already lives under: %s", privKeyFile)
	}

	kt, err := keys.ParseKeyType(keyType)
	if err != nil {
		return err
	}

	key, err := keys.GenerateKey(kt)
	if err != nil {
		return fmt.Errorf("Error generating %s key: %s", kt, err)
	}

	if err := os.MkdirAll(path.Dir(privKeyFile), 0700); err != nil {
		return fmt.Errorf("Writing private key: %s", err)
	}

	if err := keys.NewSimpleKeyfile(privKeyFile).WriteKey(key); err != nil {
		return fmt.Errorf("Writing private key: %s", err)
	}

	fmt.Printf("Your private key has been saved to: %s\n", privKeyFile)

	pub := key.PublicKey().String()

	if pubKeyFile == "" {
		fmt.Printf("Your public key is: %s\n", pub)
		return nil
	}

	if err := os.MkdirAll(path.Dir(pubKeyFile), 0700); err != nil {
		return fmt.Errorf("Writing public key: %s", err)
	}

	if err := ioutil.WriteFile(pubKeyFile, []byte(pub), 0600); err != nil {
		return fmt.Errorf("Writing public key: %s", err)
	}

	fmt.Printf("Your public key has been saved to: %s\n", pubKeyFile)

	return nil
}
