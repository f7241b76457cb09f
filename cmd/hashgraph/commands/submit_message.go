package commands

import (
	"context"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/sdk"
	"github.com/spf13/cobra"
)

var (
	submitTopicID   string
	submitMessage   string
	submitChunkSize int
	submitMaxChunks int
)

//NewSubmitMessageCmd returns the command that submits a message to a topic
func NewSubmitMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit-message",
		Short: "Submit a message to a consensus topic",
		RunE:  submitTopicMessage,
	}
	cmd.Flags().StringVar(&submitTopicID, "topic-id", "", "Topic, as shard.realm.num")
	cmd.Flags().StringVar(&submitMessage, "message", "", "Message to submit")
	cmd.Flags().IntVar(&submitChunkSize, "chunk-size", sdk.DefaultMessageChunkSize, "Bytes per transaction")
	cmd.Flags().IntVar(&submitMaxChunks, "max-chunks", sdk.DefaultMaxChunks, "Most transactions the message may be split into")
	return cmd
}

func submitTopicMessage(cmd *cobra.Command, args []string) error {
	topicID, err := hapi.TopicIDFromString(submitTopicID)
	if err != nil {
		return err
	}

	tx := sdk.NewTopicMessageSubmitTransaction()
	if err := tx.SetTopicID(topicID); err != nil {
		return err
	}
	if err := tx.SetMessage([]byte(submitMessage)); err != nil {
		return err
	}
	if err := tx.SetChunkSize(submitChunkSize); err != nil {
		return err
	}
	if err := tx.SetMaxChunks(submitMaxChunks); err != nil {
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
