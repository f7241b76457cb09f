package commands

import (
	"context"
	"fmt"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/sdk"
	"github.com/spf13/cobra"
)

var (
	receiptPending bool
	receiptRecord  bool
)

//NewReceiptCmd returns the command that waits for receipts
func NewReceiptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "receipt [transaction-id]",
		Short: "Wait for the receipt of a transaction",
		Long: `Wait for the receipt of a transaction.

Transaction IDs are written shard.realm.num@seconds.nanos. With --pending, the
receipts of every journaled transaction that has not resolved yet are waited
for instead; this requires --store.`,
		Args: cobra.MaximumNArgs(1),
		RunE: receipt,
	}
	cmd.Flags().BoolVar(&receiptPending, "pending", false, "Resolve the pending transactions of the journal")
	cmd.Flags().BoolVar(&receiptRecord, "record", false, "Also fetch the record, paid for by the operator")
	return cmd
}

func receipt(cmd *cobra.Command, args []string) error {
	if receiptPending == (len(args) == 1) {
		return fmt.Errorf("pass either a transaction ID or --pending")
	}
	if receiptPending && !_config.Client.Store {
		return fmt.Errorf("--pending requires --store")
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := context.Background()

	if !receiptPending {
		id, err := hapi.TransactionIDFromString(args[0])
		if err != nil {
			return err
		}
		return waitReceipt(ctx, client, id, nil)
	}

	pending, err := client.Journal().Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No pending transactions")
		return nil
	}
	for _, entry := range pending {
		nodes := []hapi.AccountID{entry.NodeAccountID}
		if err := waitReceipt(ctx, client, entry.TransactionID, nodes); err != nil {
			return err
		}
	}
	return nil
}

func waitReceipt(ctx context.Context, client *sdk.Client, id hapi.TransactionID, nodes []hapi.AccountID) error {
	r, err := client.Poller().Receipt(ctx, id, nodes)
	if err != nil {
		return err
	}
	printReceipt(r)

	if !receiptRecord {
		return nil
	}

	rec, err := client.Poller().Record(ctx, id, nodes)
	if err != nil {
		return err
	}
	fmt.Printf("  consensus: %s\n", rec.ConsensusTimestamp)
	fmt.Printf("  fee: %d\n", rec.TransactionFee)
	for _, t := range rec.Transfers {
		fmt.Printf("  transfer: %s %d\n", t.AccountID, t.Amount)
	}
	return nil
}
