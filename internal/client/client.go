package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmorgan81/postcard/internal/handler"
	"github.com/dmorgan81/postcard/internal/image"
	"github.com/dmorgan81/postcard/internal/log"
	"github.com/dmorgan81/postcard/internal/prompt"
	"github.com/samber/lo"
)

var ErrMissingFields = errors.New("please complete the name and wish fields")

// UnreachableError means the request never got an HTTP answer.
type UnreachableError struct {
	Err error
}

func (e *UnreachableError) Error() string {
	return "could not connect to server: " + e.Err.Error()
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// ServerError carries the error text the server reported.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

type Form struct {
	Name    string
	Wish    string
	Message string
	Seed    *int64
	Model   string
	Width   int
	Height  int
	Enhance bool
}

type Postcard struct {
	Data        []byte
	ContentType string
	Seed        int64
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    lo.Ternary(httpClient != nil, httpClient, http.DefaultClient),
	}
}

func (c *Client) Generate(ctx context.Context, form Form) (*Postcard, error) {
	name := strings.TrimSpace(form.Name)
	wish := strings.TrimSpace(form.Wish)
	message := strings.TrimSpace(form.Message)
	if name == "" || wish == "" {
		return nil, ErrMissingFields
	}

	seed := image.RandomSeed()
	if form.Seed != nil {
		seed = *form.Seed
	}

	log := log.FromContextOrDiscard(ctx).WithGroup("client").With("seed", seed)
	log.Info("requesting postcard", "server", c.BaseURL)

	body, err := json.Marshal(handler.Input{
		Name:    name,
		Wish:    wish,
		Message: lo.Ternary(message != "", message, prompt.DefaultMessage),
		Seed:    &seed,
		Model:   lo.Ternary(form.Model != "", form.Model, image.DefaultModel),
		Width:   lo.Ternary(form.Width > 0, form.Width, image.DefaultWidth),
		Height:  lo.Ternary(form.Height > 0, form.Height, image.DefaultHeight),
		Enhance: form.Enhance,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &UnreachableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var reported struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&reported)
		return nil, &ServerError{
			Status:  resp.StatusCode,
			Message: lo.Ternary(reported.Error != "", reported.Error, fmt.Sprintf("Error %d", resp.StatusCode)),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading postcard: %w", err)
	}

	if echoed, err := strconv.ParseInt(resp.Header.Get("X-Seed"), 10, 64); err == nil {
		seed = echoed
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		contentType = image.ContentType(data)
	}

	log.Info("received postcard", "seed", seed, "bytes", len(data), "content-type", contentType)
	return &Postcard{Data: data, ContentType: contentType, Seed: seed}, nil
}
