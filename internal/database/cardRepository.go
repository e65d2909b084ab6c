package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/storage"
)

func cardKey(id string) string {
	return cardPrefix + id + ".json"
}

func (r *cardRepository) Get(ctx context.Context, id string) (*entity.Card, error) {
	data, err := r.store.Get(ctx, cardKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("card %s: %w", id, entity.ErrCardNotFound)
		}
		return nil, err
	}
	var card entity.Card
	if err := json.Unmarshal(data, &card); err != nil {
		return nil, fmt.Errorf("decode card %s: %w", id, err)
	}
	return &card, nil
}

func (r *cardRepository) Put(ctx context.Context, card *entity.Card) error {
	if card.ID == "" {
		return fmt.Errorf("card without id: %w", entity.ErrInvalidInput)
	}
	data, err := json.Marshal(card)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, cardKey(card.ID), data)
}

func (r *cardRepository) Delete(ctx context.Context, id string) error {
	exists, err := r.store.Exists(ctx, cardKey(id))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("card %s: %w", id, entity.ErrCardNotFound)
	}
	return r.store.Delete(ctx, cardKey(id))
}

// List returns all cards ordered by creation time, then id.
func (r *cardRepository) List(ctx context.Context) ([]*entity.Card, error) {
	keys, err := r.store.List(ctx, cardPrefix)
	if err != nil {
		return nil, err
	}
	cards := make([]*entity.Card, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimSuffix(strings.TrimPrefix(key, cardPrefix), ".json")
		card, err := r.Get(ctx, id)
		if err != nil {
			if errors.Is(err, entity.ErrCardNotFound) {
				continue
			}
			return nil, err
		}
		cards = append(cards, card)
	}
	sort.SliceStable(cards, func(i, j int) bool {
		if !cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].CreatedAt.Before(cards[j].CreatedAt)
		}
		return cards[i].ID < cards[j].ID
	})
	return cards, nil
}
