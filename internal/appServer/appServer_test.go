package appServer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ds124wfegd/cardforge/config"
	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/kafka"
	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	v, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg, err := config.ParseConfig(v)
	require.NoError(t, err)
	cfg.Storage.Path = t.TempDir()
	return cfg
}

func TestNewComponentsRejectsUnknownTemplate(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.Template = "tarot"
	_, err := NewComponents(context.Background(), cfg)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestInProcessRenderAfterCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.Render.Template = "poker"

	c, err := NewComponents(context.Background(), cfg)
	require.NoError(t, err)
	defer c.Close()

	producer := kafka.NewInProcessProducer(func(ctx context.Context, task entity.RenderTask) {
		processor.HandleTask(ctx, c.Processor, task)
	}, 8)
	router := NewRouter(cfg, c, producer)

	req := httptest.NewRequest(http.MethodPost, "/cards", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, producer.Close())

	cards, err := c.Cards.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.NotEmpty(t, cards[0].Base64, "background task rendered the cache")
	assert.Equal(t, "poker", c.Template.Name)
}
