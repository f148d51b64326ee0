package commands

import (
	"context"

	"github.com/ayunami2000/ayunsdlist/commands/command"
	"github.com/ayunami2000/ayunsdlist/selector"
)

var ModelInfoCommand = command.NewCommand("modelinfo", []string{"mi", "查看模型信息", "切换模型"},
	"show the current model and VAE, then pick one to switch", modelInfoRun)

func modelInfoRun(ctx context.Context, cmdctx *command.CommandContext) error {
	cfg := cmdctx.Config
	flow := &selector.Flow{
		Remote:   NewRemote(cfg),
		Prompter: selector.Prompter{Timeout: cfg.PromptTimeout(), Retries: int(cfg.PromptRetries)},
		Conv:     cmdctx,
		Logger:   cmdctx.Logger,
		CanChange: func(c selector.Category) bool {
			return cfg.CanChange(c.String())
		},
	}

	// The flow reports its own failures.
	return command.Reported(flow.Run(ctx))
}
