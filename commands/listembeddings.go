package commands

import (
	"context"

	"github.com/ayunami2000/ayunsdlist/commands/command"
	"github.com/ayunami2000/ayunsdlist/selector"
)

var ListEmbeddingsCommand = command.NewCommand("listembeddings", []string{"le", "查看pt"},
	"list the embeddings loaded on the server", listEmbeddingsCommandRun)

func listEmbeddingsCommandRun(ctx context.Context, cmdctx *command.CommandContext) error {
	res, err := newClient(cmdctx.Config).GetEmbeddings(ctx)
	if err != nil {
		_, _ = cmdctx.TryReply("**Error:** Failed to get the embedding list!")
		return command.Reported(err)
	}

	names := res.Names()
	if len(names) == 0 {
		_, err = cmdctx.TryReply("**No embeddings loaded.**")
		return err
	}

	return cmdctx.Send(ctx, "**Embedding list:**\n"+selector.Render(names))
}
