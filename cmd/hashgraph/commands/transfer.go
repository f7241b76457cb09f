package commands

import (
	"context"
	"fmt"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/sdk"
	"github.com/spf13/cobra"
)

var (
	transferTo     string
	transferAmount int64
	transferMemo   string
)

//NewTransferCmd returns the command that moves tinybars from the operator
func NewTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer tinybars from the operator account",
		RunE:  transfer,
	}
	cmd.Flags().StringVar(&transferTo, "to", "", "Receiving account, as shard.realm.num")
	cmd.Flags().Int64Var(&transferAmount, "amount", 0, "Amount in tinybars")
	cmd.Flags().StringVar(&transferMemo, "memo", "", "Transaction memo")
	return cmd
}

func transfer(cmd *cobra.Command, args []string) error {
	if transferAmount <= 0 {
		return fmt.Errorf("--amount must be positive")
	}
	to, err := hapi.AccountIDFromString(transferTo)
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if client.Operator() == nil {
		return fmt.Errorf("--operator-id is required")
	}

	tx := sdk.NewTransferTransaction()
	if err := tx.AddTransfer(client.Operator().AccountID, -transferAmount); err != nil {
		return err
	}
	if err := tx.AddTransfer(to, transferAmount); err != nil {
		return err
	}
	if err := tx.SetMemo(transferMemo); err != nil {
		return err
	}

	ctx := context.Background()

	resp, err := tx.Execute(ctx, client)
	if err != nil {
		return err
	}

	return report(ctx, client, []*sdk.TransactionResponse{resp})
}
