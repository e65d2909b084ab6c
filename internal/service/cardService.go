package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/render"
)

func validateCard(card *entity.Card) error {
	if card == nil {
		return fmt.Errorf("missing card: %w", entity.ErrInvalidInput)
	}
	return card.Validate()
}

func (s *cardService) Create(ctx context.Context, card *entity.Card) (*entity.Card, error) {
	if card == nil {
		card = &entity.Card{}
	}
	if err := validateCard(card); err != nil {
		return nil, err
	}
	c := card.WithoutCache()
	c.ID = uuid.NewString()
	c.CreatedAt = s.now().UTC()
	if c.Amount == nil {
		one := 1
		c.Amount = &one
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	s.enqueue(ctx, c)
	return c, nil
}

func (s *cardService) Get(ctx context.Context, id string) (*entity.Card, error) {
	return s.repo.Get(ctx, id)
}

// Update replaces every field of the card. The render cache survives only when the
// rendered pixels cannot have changed.
func (s *cardService) Update(ctx context.Context, id string, card *entity.Card) (*entity.Card, error) {
	if err := validateCard(card); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := card.WithoutCache()
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	if updated.Amount == nil {
		one := 1
		updated.Amount = &one
	}

	stale := render.Fingerprint(updated, s.tpl) != existing.RenderHash || len(existing.Base64) == 0
	if !stale {
		updated.Base64 = existing.Base64
		updated.RenderHash = existing.RenderHash
	}
	if err := s.repo.Put(ctx, updated); err != nil {
		return nil, err
	}
	if stale {
		s.enqueue(ctx, updated)
	}
	return updated, nil
}

// Duplicate copies every field, including the cache, under a new id.
func (s *cardService) Duplicate(ctx context.Context, id string) (*entity.Card, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c := existing.Clone()
	c.ID = uuid.NewString()
	c.CreatedAt = s.now().UTC()
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	if len(c.Base64) == 0 {
		s.enqueue(ctx, c)
	}
	return c, nil
}

func (s *cardService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *cardService) List(ctx context.Context) ([]*entity.Card, error) {
	return s.repo.List(ctx)
}

func (s *cardService) Preview(ctx context.Context, id string) ([]byte, error) {
	card, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(card.Base64) > 0 && card.RenderHash == render.Fingerprint(card, s.tpl) {
		return card.Base64, nil
	}
	return s.proc.RenderPNG(ctx, card)
}

// enqueue asks for a background re-render. A lost task only delays the cache refresh,
// so failures are logged.
func (s *cardService) enqueue(ctx context.Context, card *entity.Card) {
	if s.producer == nil {
		return
	}
	task := entity.RenderTask{CardID: card.ID, Hash: render.Fingerprint(card, s.tpl)}
	if err := s.producer.Publish(ctx, task); err != nil {
		logrus.WithError(err).WithField("card_id", card.ID).Warn("could not enqueue render task")
	}
}
