package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayunami2000/ayunsdlist/commands/command"
)

var HelpCommand = command.NewCommand("help", []string{"h", "?"}, "show this message, or `help <command>` for one command", helpCommandRun)

func helpCommandRun(ctx context.Context, cmdctx *command.CommandContext) error {
	if name := strings.TrimSpace(cmdctx.Args); name != "" {
		c, ok := cmdctx.Executor.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s", command.ErrCommandNotFound, name)
		}
		return cmdctx.Send(ctx, describeCommand(c))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Usage:** %s <command>\n**Commands:**", cmdctx.CalledWithPrefix)
	for _, c := range cmdctx.Executor.Commands() {
		sb.WriteString("\n" + describeCommand(c))
	}

	return cmdctx.Send(ctx, sb.String())
}

func describeCommand(c *command.Command) string {
	return fmt.Sprintf("`%s` (%s): %s", c.Name, strings.Join(c.Aliases, ", "), c.Description)
}
