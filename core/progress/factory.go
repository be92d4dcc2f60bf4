package progress

import (
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// SinkConfig selects one observer backend by type name with raw settings.
type SinkConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Factory builds an observer from raw settings.
type Factory func(conf map[string]any) (Observer, error)

var (
	regMu    sync.RWMutex
	registry = map[string]Factory{}
)

// Register adds an observer factory identified by name. Backends call it
// from init.
func Register(name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("factory nil for %s", name)
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := registry[name]; ok {
		return fmt.Errorf("factory already registered for %s", name)
	}
	registry[name] = f
	return nil
}

// New creates an observer from sink configurations: none yields Nop, one
// yields the backend itself, several are fanned out through Multi.
func New(cfgs []SinkConfig) (Observer, error) {
	if len(cfgs) == 0 {
		return Nop{}, nil
	}
	obs := make([]Observer, len(cfgs))
	for i, c := range cfgs {
		regMu.RLock()
		f, ok := registry[c.Type]
		regMu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("unknown sink type %s", c.Type)
		}
		o, err := f(c.Conf)
		if err != nil {
			return nil, fmt.Errorf("sink %s: %w", c.Type, err)
		}
		obs[i] = o
	}
	if len(obs) == 1 {
		return obs[0], nil
	}
	return NewMulti(obs...), nil
}

// Decode fills out a typed settings struct from raw sink settings using
// json tags.
func Decode(conf map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(conf)
}
