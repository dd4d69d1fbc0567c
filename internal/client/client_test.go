package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmorgan81/postcard/internal/handler"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 0x50, 0x4e, 0x47}

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", srv.Client())
}

func TestGenerateSendsForm(t *testing.T) {
	received := make(chan handler.Input, 1)
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in handler.Input
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		received <- in

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("X-Seed", "42")
		_, _ = w.Write(pngBytes)
	})

	card, err := c.Generate(context.Background(), Form{
		Name: "  Ana ",
		Wish: " a red bicycle\n",
		Seed: lo.ToPtr(int64(42)),
	})
	require.NoError(t, err)

	in := <-received
	assert.Equal(t, "Ana", in.Name)
	assert.Equal(t, "a red bicycle", in.Wish)
	assert.Equal(t, "With love.", in.Message)
	assert.Equal(t, "nanobanana-pro", in.Model)
	assert.Equal(t, 1536, in.Width)
	assert.Equal(t, 1024, in.Height)
	require.NotNil(t, in.Seed)
	assert.Equal(t, int64(42), *in.Seed)

	assert.Equal(t, pngBytes, card.Data)
	assert.Equal(t, "image/png", card.ContentType)
	assert.Equal(t, int64(42), card.Seed)
}

func TestGenerateAssignsRandomSeed(t *testing.T) {
	received := make(chan handler.Input, 1)
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var in handler.Input
		_ = json.NewDecoder(r.Body).Decode(&in)
		received <- in
		_, _ = w.Write(pngBytes)
	})

	card, err := c.Generate(context.Background(), Form{Name: "Ana", Wish: "a sled"})
	require.NoError(t, err)

	in := <-received
	require.NotNil(t, in.Seed)
	assert.GreaterOrEqual(t, *in.Seed, int64(0))
	assert.Less(t, *in.Seed, int64(2147483647))
	assert.Equal(t, *in.Seed, card.Seed)
	assert.Equal(t, "image/png", card.ContentType)
}

func TestGenerateRejectsEmptyFields(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)

	_, err := c.Generate(context.Background(), Form{Name: "  ", Wish: "a sled"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = c.Generate(context.Background(), Form{Name: "Ana", Wish: "\t"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestGenerateServerError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"upstream returned status 502"}`))
	})

	_, err := c.Generate(context.Background(), Form{Name: "Ana", Wish: "a sled"})

	var serr *ServerError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, http.StatusInternalServerError, serr.Status)
	assert.Equal(t, "upstream returned status 502", serr.Message)

	var uerr *UnreachableError
	assert.False(t, errors.As(err, &uerr))
}

func TestGenerateServerErrorWithoutBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Generate(context.Background(), Form{Name: "Ana", Wish: "a sled"})
	assert.EqualError(t, err, "Error 502")
}

func TestGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).Generate(context.Background(), Form{Name: "Ana", Wish: "a sled"})

	var uerr *UnreachableError
	require.True(t, errors.As(err, &uerr))
	assert.Contains(t, err.Error(), "could not connect to server")
}

func TestDisplayReleasesPrevious(t *testing.T) {
	dir := t.TempDir()
	d := NewDisplay(dir)

	first, err := d.Show(&Postcard{Data: pngBytes, ContentType: "image/png", Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(first))
	assert.FileExists(t, first)

	second, err := d.Show(&Postcard{Data: []byte{0xff, 0xd8}, ContentType: "image/jpeg", Seed: 2})
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(second))
	assert.FileExists(t, second)
	assert.NoFileExists(t, first)
	assert.Equal(t, second, d.Current())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, d.Close())
	assert.NoFileExists(t, second)
	assert.Empty(t, d.Current())
	assert.NoError(t, d.Close())
}

func TestDisplayShowFailureKeepsCurrent(t *testing.T) {
	dir := t.TempDir()
	d := NewDisplay(dir)

	first, err := d.Show(&Postcard{Data: pngBytes, ContentType: "image/png", Seed: 1})
	require.NoError(t, err)

	d.dir = filepath.Join(dir, "missing")
	_, err = d.Show(&Postcard{Data: pngBytes, ContentType: "image/png", Seed: 2})
	require.Error(t, err)
	assert.Equal(t, first, d.Current())
	assert.FileExists(t, first)
}
