package commands

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/sdk"
	"github.com/spf13/cobra"
)

var (
	appendFileID    string
	appendPath      string
	appendChunkSize int
	appendMaxChunks int
)

//NewAppendFileCmd returns the command that appends a local file to a ledger
//file
func NewAppendFileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "append-file",
		Short: "Append the contents of a local file to a file on the ledger",
		RunE:  appendFile,
	}
	cmd.Flags().StringVar(&appendFileID, "file-id", "", "Ledger file, as shard.realm.num")
	cmd.Flags().StringVar(&appendPath, "path", "", "Local file to read the contents from")
	cmd.Flags().IntVar(&appendChunkSize, "chunk-size", sdk.DefaultFileChunkSize, "Bytes per transaction")
	cmd.Flags().IntVar(&appendMaxChunks, "max-chunks", sdk.DefaultMaxChunks, "Most transactions the contents may be split into")
	return cmd
}

func appendFile(cmd *cobra.Command, args []string) error {
	fileID, err := hapi.FileIDFromString(appendFileID)
	if err != nil {
		return err
	}

	contents, err := ioutil.ReadFile(appendPath)
	if err != nil {
		return fmt.Errorf("reading %s: %s", appendPath, err)
	}

	tx := sdk.NewFileAppendTransaction()
	if err := tx.SetFileID(fileID); err != nil {
		return err
	}
	if err := tx.SetContents(contents); err != nil {
		return err
	}
	if err := tx.SetChunkSize(appendChunkSize); err != nil {
		return err
	}
	if err := tx.SetMaxChunks(appendMaxChunks); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := context.Background()

	responses, err := tx.ExecuteAll(ctx, client)
	if err != nil {
		return err
	}

	return report(ctx, client, responses)
}
