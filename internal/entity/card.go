package entity

import (
	"fmt"
	"math"
	"time"
)

const (
	// MaxAmount caps the print count of one card in an export.
	MaxAmount = 100
	// MaxPlacement bounds photo offsets and sizes, in surface pixels.
	MaxPlacement = 20000
)

// Card is the structured input of a single card render.
type Card struct {
	ID        string    `json:"id" toml:"id" yaml:"id"`
	CreatedAt time.Time `json:"createdAt,omitempty" toml:"-" yaml:"-"`

	// Amount is the print count used at export time only.
	Amount *int `json:"amount,omitempty" toml:"amount,omitempty" yaml:"amount,omitempty"`

	Value            string `json:"value" toml:"value" yaml:"value"`
	ValueDescription string `json:"valueDescription,omitempty" toml:"value_description,omitempty" yaml:"valueDescription,omitempty"`

	Text      string `json:"text,omitempty" toml:"text,omitempty" yaml:"text,omitempty"`
	TextFont  string `json:"textFont,omitempty" toml:"text_font,omitempty" yaml:"textFont,omitempty"`
	TextColor string `json:"textColor,omitempty" toml:"text_color,omitempty" yaml:"textColor,omitempty"`

	Description string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`

	ImageID     string   `json:"imageId,omitempty" toml:"image_id,omitempty" yaml:"imageId,omitempty"`
	ImageX      *float64 `json:"imageX,omitempty" toml:"image_x,omitempty" yaml:"imageX,omitempty"`
	ImageY      *float64 `json:"imageY,omitempty" toml:"image_y,omitempty" yaml:"imageY,omitempty"`
	ImageWidth  *float64 `json:"imageWidth,omitempty" toml:"image_width,omitempty" yaml:"imageWidth,omitempty"`
	ImageHeight *float64 `json:"imageHeight,omitempty" toml:"image_height,omitempty" yaml:"imageHeight,omitempty"`
	ImageFilter string   `json:"imageFilter,omitempty" toml:"image_filter,omitempty" yaml:"imageFilter,omitempty"`

	NoGradient bool `json:"noGradient,omitempty" toml:"no_gradient,omitempty" yaml:"noGradient,omitempty"`

	BorderColor          string `json:"borderColor,omitempty" toml:"border_color,omitempty" yaml:"borderColor,omitempty"`
	BorderTextColor      string `json:"borderTextColor,omitempty" toml:"border_text_color,omitempty" yaml:"borderTextColor,omitempty"`
	BorderSmallTextColor string `json:"borderSmallTextColor,omitempty" toml:"border_small_text_color,omitempty" yaml:"borderSmallTextColor,omitempty"`

	// Base64 caches the last rendered PNG; RenderHash is the fingerprint it was rendered from.
	Base64     []byte `json:"base64,omitempty" toml:"-" yaml:"-"`
	RenderHash string `json:"renderHash,omitempty" toml:"-" yaml:"-"`
}

// Copies returns the print count, clamped to [1, MaxAmount].
func (c *Card) Copies() int {
	switch {
	case c.Amount == nil || *c.Amount < 1:
		return 1
	case *c.Amount > MaxAmount:
		return MaxAmount
	}
	return *c.Amount
}

// Validate checks the fields that size export output and photo placement.
func (c *Card) Validate() error {
	if c.Amount != nil && (*c.Amount < 1 || *c.Amount > MaxAmount) {
		return fmt.Errorf("amount must be between 1 and %d: %w", MaxAmount, ErrInvalidInput)
	}
	offsets := []struct {
		name string
		v    *float64
		min  float64
	}{
		{"imageX", c.ImageX, -MaxPlacement},
		{"imageY", c.ImageY, -MaxPlacement},
		{"imageWidth", c.ImageWidth, 0},
		{"imageHeight", c.ImageHeight, 0},
	}
	for _, o := range offsets {
		if o.v == nil {
			continue
		}
		if math.IsNaN(*o.v) || *o.v < o.min || *o.v > MaxPlacement {
			return fmt.Errorf("%s must be between %g and %d: %w", o.name, o.min, MaxPlacement, ErrInvalidInput)
		}
	}
	return nil
}

// Clone returns a deep copy of the card.
func (c *Card) Clone() *Card {
	out := *c
	out.Amount = cloneInt(c.Amount)
	out.ImageX = cloneFloat(c.ImageX)
	out.ImageY = cloneFloat(c.ImageY)
	out.ImageWidth = cloneFloat(c.ImageWidth)
	out.ImageHeight = cloneFloat(c.ImageHeight)
	if c.Base64 != nil {
		out.Base64 = append([]byte(nil), c.Base64...)
	}
	return &out
}

// WithoutCache returns a copy with the cached render stripped, as written to export sidecars.
func (c *Card) WithoutCache() *Card {
	out := c.Clone()
	out.Base64 = nil
	out.RenderHash = ""
	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

type ExportRequest struct {
	IDs      []string `json:"ids"`
	Sidecars *bool    `json:"sidecars,omitempty"`
	UseCache *bool    `json:"useCache,omitempty"`
}

type CardListResponse struct {
	Count int     `json:"count"`
	Cards []*Card `json:"cards"`
}
