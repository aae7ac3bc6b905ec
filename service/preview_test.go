package service

import (
	"testing"

	"github.com/TIANLI0/TryOnKit/config"
	"github.com/TIANLI0/TryOnKit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewFitsWithoutUpscaling(t *testing.T) {
	p := NewPreviewRenderer(&config.Default().Preview)

	small := p.Render(raster(100, 50))
	require.NotNil(t, small)
	assert.Equal(t, 100, small.Bounds().Dx())
	assert.Equal(t, 50, small.Bounds().Dy())

	large := p.Render(raster(1600, 800))
	assert.Equal(t, 320, large.Bounds().Dx())
	assert.Equal(t, 160, large.Bounds().Dy())

	assert.Nil(t, p.Render(nil))
}

func TestPreviewStatePlaceholders(t *testing.T) {
	p := NewPreviewRenderer(&config.Default().Preview)

	person := p.State(model.SlotPerson, nil)
	assert.False(t, person.HasImage)
	assert.Equal(t, "No image uploaded", person.Placeholder)

	clothes := p.State(model.SlotClothes, nil)
	assert.Equal(t, "No clothing uploaded", clothes.Placeholder)

	withImage := p.State(model.SlotPerson, p.Render(raster(40, 30)))
	assert.True(t, withImage.HasImage)
	assert.Empty(t, withImage.Placeholder)
	assert.Equal(t, 40, withImage.Width)
}
