package commands

import (
	"context"
	"fmt"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/sdk"
	"github.com/spf13/cobra"
)

var balanceAccount string

//NewBalanceCmd returns the command that queries the balance of an account
func NewBalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Query the balance of an account",
		RunE:  balance,
	}
	cmd.Flags().StringVar(&balanceAccount, "account", "", "Account, as shard.realm.num. Defaults to the operator")
	return cmd
}

func balance(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	var account hapi.AccountID
	switch {
	case balanceAccount != "":
		account, err = hapi.AccountIDFromString(balanceAccount)
		if err != nil {
			return err
		}
	case client.Operator() != nil:
		account = client.Operator().AccountID
	default:
		return fmt.Errorf("--account is required")
	}

	amount, err := sdk.NewAccountBalanceQuery().
		SetAccountID(account).
		Execute(context.Background(), client)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d tinybars\n", account, amount)
	return nil
}
