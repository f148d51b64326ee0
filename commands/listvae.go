package commands

import (
	"context"

	"github.com/ayunami2000/ayunsdlist/commands/command"
	"github.com/ayunami2000/ayunsdlist/selector"
)

var ListVaeCommand = command.NewCommand("listvae", []string{"lv", "查看vae"},
	"list the VAEs that can be switched to", listVaeCommandRun)

func listVaeCommandRun(ctx context.Context, cmdctx *command.CommandContext) error {
	return sendChoiceList(ctx, cmdctx, selector.CategoryVAE)
}
