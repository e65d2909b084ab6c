package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/render"
)

// CardStore is the subset of the card repository the processor needs.
type CardStore interface {
	Get(ctx context.Context, id string) (*entity.Card, error)
	Put(ctx context.Context, card *entity.Card) error
}

type CardProcessor interface {
	// Process refreshes the cached render of the task's card.
	Process(ctx context.Context, task entity.RenderTask) error
	// RenderPNG renders a card without touching the store.
	RenderPNG(ctx context.Context, card *entity.Card) ([]byte, error)
}

var errPhotoUnavailable = errors.New("photo temporarily unavailable")

type cardProcessor struct {
	cards    CardStore
	lookup   AssetLookup
	renderer *render.Renderer
	log      logrus.FieldLogger
}

func NewCardProcessor(cards CardStore, lookup AssetLookup, renderer *render.Renderer, log logrus.FieldLogger) CardProcessor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &cardProcessor{cards: cards, lookup: lookup, renderer: renderer, log: log}
}

func (p *cardProcessor) Process(ctx context.Context, task entity.RenderTask) error {
	start := time.Now()
	log := p.log.WithField("card_id", task.CardID)

	card, err := p.cards.Get(ctx, task.CardID)
	if err != nil {
		return fmt.Errorf("load card: %w", err)
	}

	hash := render.Fingerprint(card, p.renderer.Template())
	if card.RenderHash == hash && len(card.Base64) > 0 {
		log.Debug("render cache already current")
		return nil
	}
	if task.Hash != "" && task.Hash != hash {
		// the card changed after the task was queued; the newer task carries the work
		log.WithField("hash", task.Hash).Debug("stale render task")
	}

	png, cacheable, err := p.render(ctx, card)
	if err != nil {
		return err
	}
	if !cacheable {
		// the photo is temporarily unavailable; a later task renders it properly
		return fmt.Errorf("render cache not stored: %w", errPhotoUnavailable)
	}
	card.Base64 = png
	card.RenderHash = hash
	if err := StoreCache(ctx, p.cards, card, p.renderer.Template()); err != nil {
		return fmt.Errorf("store render cache: %w", err)
	}

	log.WithFields(logrus.Fields{
		"bytes":    len(png),
		"duration": time.Since(start),
	}).Info("card rendered")
	return nil
}

// StoreCache writes rendered's cache onto the stored card, unless the stored card was
// edited since rendered was loaded. A card deleted in the meantime is ignored.
func StoreCache(ctx context.Context, cards CardStore, rendered *entity.Card, tpl render.Template) error {
	current, err := cards.Get(ctx, rendered.ID)
	if err != nil {
		if errors.Is(err, entity.ErrCardNotFound) {
			return nil
		}
		return err
	}
	if render.Fingerprint(current, tpl) != rendered.RenderHash {
		return nil
	}
	current.Base64 = rendered.Base64
	current.RenderHash = rendered.RenderHash
	return cards.Put(ctx, current)
}

func (p *cardProcessor) RenderPNG(ctx context.Context, card *entity.Card) ([]byte, error) {
	png, _, err := p.render(ctx, card)
	return png, err
}

// render reports whether the result may be cached: false when the photo lookup failed
// in a way that may succeed later.
func (p *cardProcessor) render(ctx context.Context, card *entity.Card) ([]byte, bool, error) {
	photo, photoErr := ResolvePhoto(ctx, p.lookup, card, p.log)
	img := p.renderer.RenderImage(card, photo)

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), PhotoSettled(photoErr), nil
}

// PhotoSettled reports whether a render made after a ResolvePhoto error would come out
// the same on retry, so it may be cached. A missing asset or undecodable bytes are
// permanent; store errors, timeouts and cancellation are not.
func PhotoSettled(err error) bool {
	return err == nil ||
		errors.Is(err, entity.ErrAssetNotFound) ||
		errors.Is(err, entity.ErrDecodeFailure)
}

// ResolvePhoto returns the card's photo, or nil when the card has none or it cannot be
// resolved. A failed lookup is logged and returned for reporting; it never aborts a render.
func ResolvePhoto(ctx context.Context, lookup AssetLookup, card *entity.Card, log logrus.FieldLogger) (image.Image, error) {
	if card.ImageID == "" || lookup == nil {
		return nil, nil
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	photo, err := lookup(ctx, card.ImageID)
	if err != nil {
		reason := "photo lookup failed"
		switch {
		case errors.Is(err, entity.ErrAssetNotFound):
			reason = "photo asset missing"
		case errors.Is(err, entity.ErrDecodeFailure):
			reason = "photo cannot be decoded"
		}
		log.WithError(err).WithFields(logrus.Fields{
			"card_id":  card.ID,
			"asset_id": card.ImageID,
		}).Warn(reason + ", skipping photo layer")
		return nil, fmt.Errorf("%s: %w", reason, err)
	}
	return photo, nil
}
