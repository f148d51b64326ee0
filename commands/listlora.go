package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/ayunami2000/ayunsdlist/commands/command"
	"github.com/ayunami2000/ayunsdlist/lora"
	"github.com/ayunami2000/ayunsdlist/utils"
)

var ListLoraCommand = command.NewCommand("listlora", []string{"ll", "查看lora"},
	"list local LoRA files as prompt tags", listLoraCommandRun)

var ErrLoraFolderNotSet = errors.New("LoraFolderPath is not configured")

func listLoraCommandRun(ctx context.Context, cmdctx *command.CommandContext) error {
	cfg := cmdctx.Config
	if cfg.LoraFolderPath == "" {
		return ErrLoraFolderNotSet
	}

	names, err := lora.Scan(cfg.LoraFolderPath, cfg.LoraExtensions)
	if err != nil {
		cmdctx.Logger.Error().Err(err).Str("path", cfg.LoraFolderPath).Msg("could not list lora folder")
		_, _ = cmdctx.TryReply("**Error:** Failed to read the LoRA folder!")
		return command.Reported(err)
	}

	if len(names) == 0 {
		_, err = cmdctx.TryReply("**No LoRA files found.**")
		return err
	}

	for _, page := range utils.Chunk(lora.Format(names, cfg.DefaultWeight), cfg.MaxItemsPerMessage) {
		if err := cmdctx.Send(ctx, strings.Join(page, "\n")); err != nil {
			return err
		}
	}

	return nil
}
