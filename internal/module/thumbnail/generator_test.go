package thumbnail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVendor struct {
	name  string
	img   []byte
	err   error
	calls int
}

func (f *fakeVendor) Name() string { return f.name }

func (f *fakeVendor) Generate(_ context.Context, _, _ string) ([]byte, string, error) {
	f.calls++
	if f.err != nil {
		return nil, "", f.err
	}
	return f.img, "image/png", nil
}

func TestGenerate(t *testing.T) {
	t.Run("first vendor success wins", func(t *testing.T) {
		first := &fakeVendor{name: "first", img: []byte("a")}
		second := &fakeVendor{name: "second", img: []byte("b")}
		g := NewGenerator([]Vendor{first, second}, zap.NewNop())

		img, contentType, err := g.Generate(context.Background(), "sunset", "")
		require.NoError(t, err)
		assert.Equal(t, []byte("a"), img)
		assert.Equal(t, "image/png", contentType)
		assert.Zero(t, second.calls)
	})

	t.Run("falls through to next vendor", func(t *testing.T) {
		first := &fakeVendor{name: "first", err: errors.New("rate limited")}
		second := &fakeVendor{name: "second", img: []byte("b")}
		g := NewGenerator([]Vendor{first, second}, zap.NewNop())

		img, _, err := g.Generate(context.Background(), "sunset", "")
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), img)
	})

	t.Run("all vendors failing is an error", func(t *testing.T) {
		first := &fakeVendor{name: "first", err: errors.New("down")}
		second := &fakeVendor{name: "second", err: errors.New("also down")}
		g := NewGenerator([]Vendor{first, second}, zap.NewNop())

		_, _, err := g.Generate(context.Background(), "sunset", "")
		assert.ErrorIs(t, err, ErrAllVendorsFailed)
	})

	t.Run("no vendors configured", func(t *testing.T) {
		g := NewGenerator(nil, zap.NewNop())

		_, _, err := g.Generate(context.Background(), "sunset", "")
		assert.ErrorIs(t, err, ErrAllVendorsFailed)
	})
}
