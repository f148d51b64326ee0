package commands

import (
	"context"

	"github.com/ayunami2000/ayunsdlist/commands/command"
	"github.com/ayunami2000/ayunsdlist/selector"
)

var ListModelsCommand = command.NewCommand("listmodels", []string{"lm", "查看模型", "获取模型列表"},
	"list the models on the server", listModelsCommandRun)

func listModelsCommandRun(ctx context.Context, cmdctx *command.CommandContext) error {
	return sendChoiceList(ctx, cmdctx, selector.CategoryModel)
}

func sendChoiceList(ctx context.Context, cmdctx *command.CommandContext, category selector.Category) error {
	list, err := NewRemote(cmdctx.Config).FetchChoiceList(ctx, category)
	if err != nil {
		_, _ = cmdctx.TryReply("**Error:** Failed to get the %s list!", category.Label())
		return command.Reported(err)
	}

	if len(list) == 0 {
		_, err = cmdctx.TryReply("**No %s available.**", category.Label())
		return err
	}

	return cmdctx.Send(ctx, "**"+category.Label()+" list:**\n"+selector.Render(list))
}
