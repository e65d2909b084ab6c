package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/cardforge/internal/database"
	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
	"github.com/ds124wfegd/cardforge/internal/pkg/render"
	"github.com/ds124wfegd/cardforge/internal/pkg/storage"
)

type recordingProducer struct {
	mu    sync.Mutex
	tasks []entity.RenderTask
}

func (p *recordingProducer) Publish(_ context.Context, task entity.RenderTask) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, task)
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func (p *recordingProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

type fixture struct {
	assets   AssetService
	cards    CardService
	exports  ExportService
	cardRepo database.CardRepository
	producer *recordingProducer
	proc     processor.CardProcessor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewFileStorage(t.TempDir())
	assetRepo := database.NewAssetRepository(store)
	cardRepo := database.NewCardRepository(store)
	renderer := render.NewRenderer(render.Classic)
	lookup := processor.NewAssetLookup(assetRepo)
	proc := processor.NewCardProcessor(cardRepo, lookup, renderer, nil)
	producer := &recordingProducer{}

	cards := NewCardService(cardRepo, producer, proc, render.Classic)
	return &fixture{
		assets:   NewAssetService(assetRepo),
		cards:    cards,
		exports:  NewExportService(cardRepo, cards, renderer, lookup, ExportDefaults{}),
		cardRepo: cardRepo,
		producer: producer,
		proc:     proc,
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAssetUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	asset, err := f.assets.Upload(ctx, "../../photos/cat.png", pngBytes(t))
	require.NoError(t, err)
	assert.NotEmpty(t, asset.ID)
	assert.Equal(t, "cat.png", asset.Name)
	assert.Equal(t, "image/png", asset.MimeType)

	raw, err := f.assets.Raw(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, pngBytes(t), raw.PixelData)

	_, err = f.assets.Upload(ctx, "notes.txt", []byte("plain text"))
	assert.ErrorIs(t, err, entity.ErrUnsupportedMedia)

	_, err = f.assets.Upload(ctx, "empty.png", nil)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	truncated := pngBytes(t)[:40]
	_, err = f.assets.Upload(ctx, "broken.png", truncated)
	assert.ErrorIs(t, err, entity.ErrDecodeFailure)
}

func TestAssetRenameDeleteList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	asset, err := f.assets.Upload(ctx, "a.png", pngBytes(t))
	require.NoError(t, err)

	renamed, err := f.assets.Rename(ctx, asset.ID, "  hero.png ")
	require.NoError(t, err)
	assert.Equal(t, "hero.png", renamed.Name)

	_, err = f.assets.Rename(ctx, asset.ID, " ")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	list, err := f.assets.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hero.png", list[0].Name)

	require.NoError(t, f.assets.Delete(ctx, asset.ID))
	_, err = f.assets.Get(ctx, asset.ID)
	assert.ErrorIs(t, err, entity.ErrAssetNotFound)
}

func TestCardCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.cards.Create(ctx, &entity.Card{ID: "ignored", Value: "A", Base64: []byte("junk")})
	require.NoError(t, err)
	assert.NotEqual(t, "ignored", card.ID)
	assert.Equal(t, 1, *card.Amount)
	assert.Nil(t, card.Base64)
	assert.False(t, card.CreatedAt.IsZero())

	require.Equal(t, 1, f.producer.count())
	assert.Equal(t, card.ID, f.producer.tasks[0].CardID)
	assert.Equal(t, render.Fingerprint(card, render.Classic), f.producer.tasks[0].Hash)

	zero := 0
	_, err = f.cards.Create(ctx, &entity.Card{Amount: &zero})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	blank, err := f.cards.Create(ctx, nil)
	require.NoError(t, err, "new card with defaults")
	assert.Equal(t, "", blank.Value)
}

func TestCardValidation(t *testing.T) {
	intp := func(n int) *int { return &n }
	floatp := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		card    *entity.Card
		wantErr bool
	}{
		{name: "defaults", card: &entity.Card{Value: "A"}},
		{name: "max amount", card: &entity.Card{Amount: intp(entity.MaxAmount)}},
		{name: "zero amount", card: &entity.Card{Amount: intp(0)}, wantErr: true},
		{name: "amount over limit", card: &entity.Card{Amount: intp(entity.MaxAmount + 1)}, wantErr: true},
		{name: "huge amount", card: &entity.Card{Amount: intp(1000000000)}, wantErr: true},
		{name: "negative offset", card: &entity.Card{ImageX: floatp(-200), ImageY: floatp(-50)}},
		{name: "huge width", card: &entity.Card{ImageWidth: floatp(1e12)}, wantErr: true},
		{name: "negative height", card: &entity.Card{ImageHeight: floatp(-1)}, wantErr: true},
		{name: "far offset", card: &entity.Card{ImageY: floatp(-1e9)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)

			created, err := f.cards.Create(ctx, tt.card)
			if tt.wantErr {
				assert.ErrorIs(t, err, entity.ErrInvalidInput)
				assert.Equal(t, 0, f.producer.count(), "rejected cards are not rendered")

				existing, err := f.cards.Create(ctx, &entity.Card{Value: "1"})
				require.NoError(t, err)
				_, err = f.cards.Update(ctx, existing.ID, tt.card)
				assert.ErrorIs(t, err, entity.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
		})
	}
}

func TestCardUpdateCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.cards.Create(ctx, &entity.Card{Value: "7"})
	require.NoError(t, err)
	require.NoError(t, f.proc.Process(ctx, entity.RenderTask{CardID: card.ID}))

	cached, err := f.cards.Get(ctx, card.ID)
	require.NoError(t, err)
	require.NotEmpty(t, cached.Base64)

	amount := 4
	same := &entity.Card{Value: "7", Amount: &amount}
	updated, err := f.cards.Update(ctx, card.ID, same)
	require.NoError(t, err)
	assert.Equal(t, cached.Base64, updated.Base64, "amount does not affect pixels")
	assert.Equal(t, card.CreatedAt, updated.CreatedAt)
	assert.Equal(t, 1, f.producer.count())

	changed := &entity.Card{Value: "8"}
	updated, err = f.cards.Update(ctx, card.ID, changed)
	require.NoError(t, err)
	assert.Nil(t, updated.Base64)
	assert.Equal(t, 2, f.producer.count())

	_, err = f.cards.Update(ctx, "missing", changed)
	assert.ErrorIs(t, err, entity.ErrCardNotFound)
}

func TestCardDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.cards.Create(ctx, &entity.Card{Value: "Q", Description: "queen"})
	require.NoError(t, err)
	require.NoError(t, f.proc.Process(ctx, entity.RenderTask{CardID: card.ID}))
	original, err := f.cards.Get(ctx, card.ID)
	require.NoError(t, err)

	dup, err := f.cards.Duplicate(ctx, card.ID)
	require.NoError(t, err)
	assert.NotEqual(t, card.ID, dup.ID)
	assert.Equal(t, original.Description, dup.Description)
	assert.Equal(t, original.Base64, dup.Base64)

	list, err := f.cards.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCardPreviewAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	card, err := f.cards.Create(ctx, &entity.Card{Value: "3"})
	require.NoError(t, err)

	data, err := f.cards.Preview(ctx, card.ID)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, render.Classic.Bounds(), img.Bounds())

	require.NoError(t, f.cards.Delete(ctx, card.ID))
	_, err = f.cards.Preview(ctx, card.ID)
	assert.ErrorIs(t, err, entity.ErrCardNotFound)
}

func TestExportServiceOrderAndCache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.cards.Create(ctx, &entity.Card{Value: "1"})
	require.NoError(t, err)
	two := 2
	second, err := f.cards.Create(ctx, &entity.Card{Value: "2", Amount: &two})
	require.NoError(t, err)

	var progressed int
	_, report, err := f.exports.Export(ctx, entity.ExportRequest{IDs: []string{second.ID, first.ID}}, func(current, total int, _ string) {
		progressed = current
		assert.Equal(t, 2, total)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0.png", "0-1.png", "1.png"}, report.Entries)
	assert.Equal(t, 2, progressed)

	stored, err := f.cards.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.Base64, "export persists the cache")

	useCache := true
	_, report, err = f.exports.Export(ctx, entity.ExportRequest{UseCache: &useCache}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Cached)

	_, _, err = f.exports.Export(ctx, entity.ExportRequest{IDs: []string{"nope"}}, nil)
	assert.ErrorIs(t, err, entity.ErrCardNotFound)
}

func TestExportServiceImport(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.cards.Create(ctx, &entity.Card{Value: "K", Text: "long live"})
	require.NoError(t, err)

	sidecars := true
	archive, _, err := f.exports.Export(ctx, entity.ExportRequest{Sidecars: &sidecars}, nil)
	require.NoError(t, err)

	imported, err := f.exports.Import(ctx, archive)
	require.NoError(t, err)
	require.Len(t, imported, 1)
	assert.Equal(t, "long live", imported[0].Text)

	list, err := f.cards.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = f.exports.Import(ctx, []byte("junk"))
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}
