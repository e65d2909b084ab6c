// Package deckfile loads offline deck descriptions: a template, a set of photo files
// and the cards that use them.
package deckfile

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
)

type AssetRef struct {
	ID   string `toml:"id" yaml:"id"`
	Path string `toml:"path" yaml:"path"`
}

type Deck struct {
	Template string         `toml:"template" yaml:"template"`
	Assets   []AssetRef     `toml:"assets" yaml:"assets"`
	Cards    []*entity.Card `toml:"cards" yaml:"cards"`

	// Dir is the directory asset paths are relative to.
	Dir string `toml:"-" yaml:"-"`
}

// Load reads a .toml, .yaml or .yml deck file.
func Load(path string) (*Deck, error) {
	var deck Deck
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &deck); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &deck); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported deck file extension %q: %w", ext, entity.ErrInvalidInput)
	}

	deck.Dir = filepath.Dir(path)
	if err := deck.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &deck, nil
}

func (d *Deck) validate() error {
	seen := make(map[string]bool)
	for i, c := range d.Cards {
		if c == nil {
			return fmt.Errorf("card %d is empty: %w", i, entity.ErrInvalidInput)
		}
		if c.ID == "" {
			c.ID = fmt.Sprintf("card-%d", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate card id %q: %w", c.ID, entity.ErrInvalidInput)
		}
		seen[c.ID] = true
		if err := c.Validate(); err != nil {
			return fmt.Errorf("card %q: %w", c.ID, err)
		}
	}
	for _, a := range d.Assets {
		if a.ID == "" || a.Path == "" {
			return fmt.Errorf("asset entries need id and path: %w", entity.ErrInvalidInput)
		}
	}
	return nil
}

// Card returns the card with the given id.
func (d *Deck) Card(id string) (*entity.Card, error) {
	for _, c := range d.Cards {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("card %q: %w", id, entity.ErrCardNotFound)
}

// Lookup resolves asset ids to the photo files listed in the deck.
func (d *Deck) Lookup() processor.AssetLookup {
	paths := make(map[string]string, len(d.Assets))
	for _, a := range d.Assets {
		p := a.Path
		if !filepath.IsAbs(p) {
			p = filepath.Join(d.Dir, p)
		}
		paths[a.ID] = p
	}
	return func(ctx context.Context, id string) (image.Image, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, ok := paths[id]
		if !ok {
			return nil, fmt.Errorf("asset %q: %w", id, entity.ErrAssetNotFound)
		}
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("asset %q at %s: %w", id, p, entity.ErrAssetNotFound)
			}
			return nil, err
		}
		return processor.Decode(data)
	}
}
