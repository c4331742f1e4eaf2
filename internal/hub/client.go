// Package hub is a small client for the HuggingFace Hub API, used to
// resolve a model id to a GGUF file and download it into the local models
// directory. Gated repos are accessed with a bearer token.
package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotFound indicates the model id does not exist on the Hub (or the
// token does not grant access to it).
var ErrNotFound = errors.New("hub: model not found")

// ErrNoGGUF indicates the repo exists but contains no GGUF file.
var ErrNoGGUF = errors.New("hub: no gguf file in repo")

// Client accesses the HuggingFace Hub API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a Hub client. token may be empty for public repos.
func New(token string) *Client {
	return &Client{
		baseURL: "https://huggingface.co",
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewWithBaseURL creates a client against a specific endpoint. Used by tests.
func NewWithBaseURL(baseURL, token string) *Client {
	c := New(token)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// ModelInfo is the subset of the Hub model metadata we care about.
type ModelInfo struct {
	ID          string   `json:"id"`
	Author      string   `json:"author"`
	Tags        []string `json:"tags"`
	PipelineTag string   `json:"pipeline_tag"`
	Private     bool     `json:"private"`
	Gated       any      `json:"gated"` // false, "auto" or "manual"
	Siblings    []File   `json:"siblings,omitempty"`
}

// File is a file entry in a Hub model repository.
type File struct {
	RFilename string `json:"rfilename"`
	Size      int64  `json:"size,omitempty"`
	LFS       *struct {
		Size int64 `json:"size"`
	} `json:"lfs,omitempty"`
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpClient.Do(req)
}

// GetModel fetches metadata for a model id like "meta-llama/Meta-Llama-3-8B-Instruct".
func (c *Client) GetModel(ctx context.Context, modelID string) (*ModelInfo, error) {
	apiURL := fmt.Sprintf("%s/api/models/%s", c.baseURL, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("get model info: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s (status %d)", ErrNotFound, modelID, resp.StatusCode)
	default:
		return nil, fmt.Errorf("get model info: status %d", resp.StatusCode)
	}
	var info ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode model info: %w", err)
	}
	return &info, nil
}

// FindGGUF returns the repo-relative path and size of the first GGUF file
// in the model repository, preferring quantized variants in the order
// Q4_K_M, Q5_K_M, Q8_0 before falling back to the first match.
func (c *Client) FindGGUF(ctx context.Context, modelID string) (string, int64, error) {
	info, err := c.GetModel(ctx, modelID)
	if err != nil {
		return "", 0, err
	}
	var ggufs []File
	for _, f := range info.Siblings {
		if strings.HasSuffix(strings.ToLower(f.RFilename), ".gguf") {
			ggufs = append(ggufs, f)
		}
	}
	if len(ggufs) == 0 {
		return "", 0, fmt.Errorf("%w: %s", ErrNoGGUF, modelID)
	}
	for _, quant := range []string{"q4_k_m", "q5_k_m", "q8_0"} {
		for _, f := range ggufs {
			if strings.Contains(strings.ToLower(f.RFilename), quant) {
				return f.RFilename, fileSize(f), nil
			}
		}
	}
	return ggufs[0].RFilename, fileSize(ggufs[0]), nil
}

func fileSize(f File) int64 {
	if f.LFS != nil && f.LFS.Size > 0 {
		return f.LFS.Size
	}
	return f.Size
}

// Download fetches a repo file into destDir and returns the local path.
// The file is written to a temp name first and renamed into place so a
// failed download never leaves a partial model behind.
func (c *Client) Download(ctx context.Context, modelID, repoPath, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create models dir: %w", err)
	}
	fileURL := fmt.Sprintf("%s/%s/resolve/main/%s", c.baseURL, modelID, repoPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	// No client timeout for large downloads; rely on the caller's context.
	cli := &http.Client{Transport: c.httpClient.Transport}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := cli.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s/%s", ErrNotFound, modelID, repoPath)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: status %d", resp.StatusCode)
	}

	dest := filepath.Join(destDir, filepath.Base(repoPath))
	tmp, err := os.CreateTemp(destDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("rename model file: %w", err)
	}
	return dest, nil
}
