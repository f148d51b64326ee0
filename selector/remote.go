package selector

import (
	"context"
	"fmt"
	"slices"

	"github.com/ayunami2000/ayunsdlist/sdapi"
)

// API is the part of the image-generation server the selector talks to.
type API interface {
	GetOptions(ctx context.Context) (*sdapi.Options, error)
	GetModels(ctx context.Context) ([]sdapi.Model, error)
	GetVAEs(ctx context.Context) ([]sdapi.VAE, error)
	SetOptions(ctx context.Context, update sdapi.OptionsUpdate) error
}

type ListSource int

const (
	ListStatic ListSource = iota
	ListRemote
)

// Remote reads and switches the server's active selections.
// Nothing is cached; every call goes to the server.
type Remote struct {
	api       API
	vaeSource ListSource
	vaeList   []string
}

// NewRemote builds a Remote. staticVAEs is used when vaeSource is ListStatic.
func NewRemote(api API, vaeSource ListSource, staticVAEs []string) *Remote {
	return &Remote{api: api, vaeSource: vaeSource, vaeList: slices.Clone(staticVAEs)}
}

func (r *Remote) FetchSnapshot(ctx context.Context) (Snapshot, error) {
	opts, err := r.api.GetOptions(ctx)
	if err != nil {
		return Snapshot{}, &FetchError{Err: err}
	}
	return Snapshot{Model: opts.SDModelCheckpoint, VAE: opts.SDVae}, nil
}

func (r *Remote) FetchChoiceList(ctx context.Context, category Category) (ChoiceList, error) {
	switch category {
	case CategoryModel:
		models, err := r.api.GetModels(ctx)
		if err != nil {
			return nil, &FetchError{Category: category, Err: err}
		}
		list := make(ChoiceList, 0, len(models))
		for _, m := range models {
			list = append(list, m.Title)
		}
		return list, nil
	case CategoryVAE:
		if r.vaeSource == ListStatic {
			return slices.Clone(ChoiceList(r.vaeList)), nil
		}
		vaes, err := r.api.GetVAEs(ctx)
		if err != nil {
			return nil, &FetchError{Category: category, Err: err}
		}
		list := make(ChoiceList, 0, len(vaes))
		for _, v := range vaes {
			list = append(list, v.ModelName)
		}
		return list, nil
	default:
		return nil, &FetchError{Category: category, Err: fmt.Errorf("unknown category %d", int(category))}
	}
}

// Switch applies req and returns the snapshot the server reports afterwards.
// A failed POST is not rolled back.
func (r *Remote) Switch(ctx context.Context, req SwitchRequest) (Snapshot, error) {
	var update sdapi.OptionsUpdate
	switch req.Category {
	case CategoryModel:
		update.SDModelCheckpoint = req.Name
	case CategoryVAE:
		update.SDVae = req.Name
	default:
		return Snapshot{}, &SwitchError{Category: req.Category, Err: fmt.Errorf("unknown category %d", int(req.Category))}
	}

	if err := r.api.SetOptions(ctx, update); err != nil {
		return Snapshot{}, &SwitchError{Category: req.Category, Err: err}
	}

	return r.FetchSnapshot(ctx)
}
