package commands

import (
	"github.com/ayunami2000/ayunsdlist/commands/command"
	"github.com/ayunami2000/ayunsdlist/config"
	"github.com/ayunami2000/ayunsdlist/sdapi"
	"github.com/ayunami2000/ayunsdlist/selector"
)

func Register(e *command.Executor) {
	e.RegisterCommand(ModelInfoCommand)
	e.RegisterCommand(ListModelsCommand)
	e.RegisterCommand(ListVaeCommand)
	e.RegisterCommand(ListEmbeddingsCommand)
	e.RegisterCommand(ListLoraCommand)
	e.RegisterCommand(HelpCommand)
}

func newClient(cfg config.Config) *sdapi.Client {
	var opts []sdapi.Option
	if cfg.RequestTimeout > 0 {
		opts = append(opts, sdapi.WithTimeout(cfg.RequestTimeout))
	}
	return sdapi.New(cfg.Endpoint, cfg.BasicAuth, opts...)
}

// NewRemote builds the selector backend described by cfg.
func NewRemote(cfg config.Config) *selector.Remote {
	source := selector.ListStatic
	if cfg.RemoteVaeList() {
		source = selector.ListRemote
	}
	return selector.NewRemote(newClient(cfg), source, cfg.VaeList)
}
