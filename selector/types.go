package selector

import (
	"math"
	"strconv"
	"strings"
)

// Category numbers match the numbers shown to the user.
type Category int

const (
	CategoryModel Category = iota + 1
	CategoryVAE
)

// Categories is the order categories are offered in.
var Categories = []Category{CategoryModel, CategoryVAE}

func (c Category) String() string {
	switch c {
	case CategoryModel:
		return "model"
	case CategoryVAE:
		return "vae"
	default:
		return "unknown"
	}
}

// Label is the user-facing name.
func (c Category) Label() string {
	switch c {
	case CategoryModel:
		return "Model"
	case CategoryVAE:
		return "VAE"
	default:
		return "Unknown"
	}
}

func (c Category) listName() string {
	if c == 0 {
		return "current options"
	}
	return c.String() + " list"
}

// Snapshot is the server's active selection at one point in time.
type Snapshot struct {
	Model string
	VAE   string
}

func (s Snapshot) Get(c Category) string {
	switch c {
	case CategoryModel:
		return s.Model
	case CategoryVAE:
		return s.VAE
	default:
		return ""
	}
}

// Confirmed reports whether the snapshot shows req's name as active.
func (s Snapshot) Confirmed(req SwitchRequest) bool {
	return s.Get(req.Category) == req.Name
}

// Choice is a validated 1-based selection. Build it with ParseChoice.
type Choice struct {
	n int
}

func (c Choice) Int() int { return c.n }

// ParseChoice accepts a whole number in [1, max]; surrounding whitespace is ignored.
func ParseChoice(raw string, max int) (Choice, error) {
	invalid := &InvalidSelectionError{Reply: raw, Max: max}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Choice{}, invalid
	}
	if f != math.Trunc(f) || f < 1 || f > float64(max) {
		return Choice{}, invalid
	}

	return Choice{n: int(f)}, nil
}

type ChoiceList []string

// Resolve maps a 1-based choice onto the list.
func (l ChoiceList) Resolve(c Choice) (string, error) {
	if c.n < 1 || c.n > len(l) {
		return "", &InvalidSelectionError{Reply: strconv.Itoa(c.n), Max: len(l)}
	}
	return l[c.n-1], nil
}

type SwitchRequest struct {
	Category Category
	Name     string
}

// NewSwitchRequest resolves choice against the list that was shown for category.
func NewSwitchRequest(category Category, shown ChoiceList, choice Choice) (SwitchRequest, error) {
	name, err := shown.Resolve(choice)
	if err != nil {
		return SwitchRequest{}, err
	}
	return SwitchRequest{Category: category, Name: name}, nil
}
