package service

import (
	"context"
	"time"

	"github.com/ds124wfegd/cardforge/internal/database"
	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/export"
	"github.com/ds124wfegd/cardforge/internal/pkg/kafka"
	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
	"github.com/ds124wfegd/cardforge/internal/pkg/render"
)

type AssetService interface {
	Upload(ctx context.Context, name string, data []byte) (*entity.ImageAsset, error)
	Get(ctx context.Context, id string) (*entity.ImageAsset, error)
	// Raw returns the asset including its pixel data.
	Raw(ctx context.Context, id string) (*entity.ImageAsset, error)
	Rename(ctx context.Context, id, name string) (*entity.ImageAsset, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.ImageAsset, error)
}

type CardService interface {
	Create(ctx context.Context, card *entity.Card) (*entity.Card, error)
	Get(ctx context.Context, id string) (*entity.Card, error)
	Update(ctx context.Context, id string, card *entity.Card) (*entity.Card, error)
	Duplicate(ctx context.Context, id string) (*entity.Card, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Card, error)
	// Preview returns the card's PNG, from cache when it is current.
	Preview(ctx context.Context, id string) ([]byte, error)
}

type ExportService interface {
	Export(ctx context.Context, req entity.ExportRequest, progress export.Progress) ([]byte, *export.Report, error)
	Import(ctx context.Context, archive []byte) ([]*entity.Card, error)
}

type assetService struct {
	repo database.AssetRepository
	now  func() time.Time
}

type cardService struct {
	repo     database.CardRepository
	producer kafka.Producer
	proc     processor.CardProcessor
	tpl      render.Template
	now      func() time.Time
}

type exportService struct {
	cards    database.CardRepository
	creator  CardService
	renderer *render.Renderer
	lookup   processor.AssetLookup
	defaults ExportDefaults
}

// ExportDefaults apply when an export request leaves an option unset.
type ExportDefaults struct {
	Sidecars bool
	UseCache bool
}

func NewAssetService(repo database.AssetRepository) AssetService {
	return &assetService{repo: repo, now: time.Now}
}

func NewCardService(repo database.CardRepository, producer kafka.Producer, proc processor.CardProcessor, tpl render.Template) CardService {
	return &cardService{
		repo:     repo,
		producer: producer,
		proc:     proc,
		tpl:      tpl,
		now:      time.Now,
	}
}

func NewExportService(cards database.CardRepository, creator CardService, renderer *render.Renderer, lookup processor.AssetLookup, defaults ExportDefaults) ExportService {
	return &exportService{
		cards:    cards,
		creator:  creator,
		renderer: renderer,
		lookup:   lookup,
		defaults: defaults,
	}
}
