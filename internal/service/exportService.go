package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/export"
	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
)

// Export renders the requested cards, in request order, or every card when no ids are given.
func (s *exportService) Export(ctx context.Context, req entity.ExportRequest, progress export.Progress) ([]byte, *export.Report, error) {
	records, err := s.records(ctx, req.IDs)
	if err != nil {
		return nil, nil, err
	}

	tpl := s.renderer.Template()
	exporter := export.New(export.Options{
		Renderer: s.renderer,
		Lookup:   s.lookup,
		Persist: func(ctx context.Context, card *entity.Card) error {
			return processor.StoreCache(ctx, s.cards, card, tpl)
		},
		Sidecars: boolOr(req.Sidecars, s.defaults.Sidecars),
		UseCache: boolOr(req.UseCache, s.defaults.UseCache),
		Log:      logrus.WithField("component", "export"),
	})
	return exporter.ExportAll(ctx, records, progress)
}

func (s *exportService) records(ctx context.Context, ids []string) ([]*entity.Card, error) {
	if len(ids) == 0 {
		return s.cards.List(ctx)
	}
	records := make([]*entity.Card, 0, len(ids))
	for _, id := range ids {
		card, err := s.cards.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, card)
	}
	return records, nil
}

// Import creates a new card for every sidecar in an exported archive.
func (s *exportService) Import(ctx context.Context, archive []byte) ([]*entity.Card, error) {
	cards, err := export.ImportArchive(archive)
	if err != nil {
		return nil, err
	}
	created := make([]*entity.Card, 0, len(cards))
	for _, c := range cards {
		card, err := s.creator.Create(ctx, c)
		if err != nil {
			return created, err
		}
		created = append(created, card)
	}
	return created, nil
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
