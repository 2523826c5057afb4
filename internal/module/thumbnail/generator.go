package thumbnail

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrAllVendorsFailed is returned when no configured vendor produced an
// image.
var ErrAllVendorsFailed = errors.New("all thumbnail vendors failed")

// Vendor generates an image from a prompt.
type Vendor interface {
	Name() string
	Generate(ctx context.Context, prompt, size string) ([]byte, string, error)
}

// Generator tries vendors in configured order; the first success wins.
type Generator struct {
	vendors []Vendor
	logger  *zap.Logger
}

// NewGenerator creates a thumbnail generator over an ordered vendor list.
func NewGenerator(vendors []Vendor, logger *zap.Logger) *Generator {
	return &Generator{vendors: vendors, logger: logger}
}

// Generate produces thumbnail image bytes and their content type.
func (g *Generator) Generate(ctx context.Context, prompt, size string) ([]byte, string, error) {
	if len(g.vendors) == 0 {
		return nil, "", ErrAllVendorsFailed
	}

	var lastErr error
	for _, v := range g.vendors {
		img, contentType, err := v.Generate(ctx, prompt, size)
		if err == nil {
			return img, contentType, nil
		}
		lastErr = err
		g.logger.Warn("thumbnail vendor failed, trying next",
			zap.String("vendor", v.Name()),
			zap.Error(err),
		)
	}

	return nil, "", fmt.Errorf("%w: %v", ErrAllVendorsFailed, lastErr)
}
