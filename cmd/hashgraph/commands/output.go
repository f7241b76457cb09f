package commands

import (
	"context"
	"fmt"

	"github.com/mosaicnetworks/hashgraph-sdk/src/sdk"
)

// report prints the responses of a transaction and, with --wait, the receipt
// of every chunk.
func report(ctx context.Context, client *sdk.Client, responses []*sdk.TransactionResponse) error {
	for _, resp := range responses {
		fmt.Printf("Submitted %s\n", resp)

		if !_config.Wait {
			continue
		}

		receipt, err := resp.GetReceipt(ctx, client)
		if err != nil {
			return err
		}
		printReceipt(receipt)
	}
	return nil
}

func printReceipt(r *sdk.TransactionReceipt) {
	fmt.Printf("%s: %s\n", r.TransactionID, r.Status)
	if r.AccountID != nil {
		fmt.Printf("  account: %s\n", r.AccountID)
	}
	if r.FileID != nil {
		fmt.Printf("  file: %s\n", r.FileID)
	}
	if r.TopicID != nil {
		fmt.Printf("  topic: %s sequence %d\n", r.TopicID, r.TopicSequenceNumber)
	}
	for _, c := range r.Children {
		fmt.Printf("  child: %s\n", c.Status)
		if c.AccountID != nil {
			fmt.Printf("    account: %s\n", c.AccountID)
		}
	}
	for _, d := range r.Duplicates {
		fmt.Printf("  duplicate: %s\n", d.Status)
	}
}
