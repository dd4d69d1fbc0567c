package image

import "context"

const (
	DefaultModel  = "nanobanana-pro"
	DefaultWidth  = 1536
	DefaultHeight = 1024
)

type Params struct {
	Prompt  string `json:"prompt"`
	Model   string `json:"model"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Seed    *int64 `json:"seed,omitempty"`
	Enhance bool   `json:"enhance,omitempty"`
	NoLogo  bool   `json:"nologo,omitempty"`
}

type Generator interface {
	Generate(context.Context, Params) ([]byte, error)
}
