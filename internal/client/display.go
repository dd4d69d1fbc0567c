package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Display holds at most one shown postcard on disk. Showing a new one
// releases the previous file; Close releases the current one.
type Display struct {
	dir     string
	mu      sync.Mutex
	current string
}

func NewDisplay(dir string) *Display {
	return &Display{dir: dir}
}

func (d *Display) Show(p *Postcard) (string, error) {
	f, err := os.CreateTemp(d.dir, fmt.Sprintf("postcard-%d-*%s", p.Seed, extension(p.ContentType)))
	if err != nil {
		return "", err
	}
	if _, err := f.Write(p.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	previous := d.current
	d.current = f.Name()
	return d.current, release(previous)
}

func (d *Display) Current() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	previous := d.current
	d.current = ""
	return release(previous)
}

func release(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
