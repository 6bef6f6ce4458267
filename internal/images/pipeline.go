// Package images keeps item image references durable without re-uploading
// bytes that haven't changed. Every image is content-hashed; only images
// whose hash differs from the prior snapshot's are sent to the CDN.
package images

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"shop-monitor/internal/retry"
	"shop-monitor/pkg/models"
)

// Uploader is the CDN upload call. Satisfied by *CDNClient.
type Uploader interface {
	Upload(ctx context.Context, urls []string) ([]string, error)
}

// Pipeline resolves every item's image to a durable URL plus content hash.
type Pipeline struct {
	uploader   Uploader
	httpClient *http.Client
	report     func(error)

	// retry knobs, package defaults in production
	attempts int
	delay    time.Duration
}

func NewPipeline(uploader Uploader, report func(error)) *Pipeline {
	return &Pipeline{
		uploader:   uploader,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		report:     report,
		attempts:   retry.Attempts,
		delay:      retry.Delay,
	}
}

// Process returns a copy of items with image references resolved:
//   - hash matches the id-matched prior item: reuse its durable URL, no upload
//   - hash differs or item is new: upload, swap in the deployed URL
//   - fetch/hash failed: upload the source URL anyway (fail-open) so the item
//     is never left without a usable reference
//
// One batched upload call covers every marked item; it is skipped when
// nothing changed. An upload failure (after retries) is returned and fails
// the run — notifications can't go out with unresolved image state.
func (p *Pipeline) Process(ctx context.Context, items, prior []models.ShopItem) ([]models.ShopItem, error) {
	out := make([]models.ShopItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}

	priorByID := make(map[int]models.ShopItem, len(prior))
	for _, item := range prior {
		priorByID[item.ID] = item
	}

	// 1. Fetch and hash every image concurrently.
	hashes := make([]string, len(out))
	hashErrs := make([]error, len(out))
	var wg sync.WaitGroup
	for i := range out {
		if out[i].ImageURL == "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hashes[i], hashErrs[i] = p.fetchHash(ctx, out[i].ImageURL)
		}(i)
	}
	wg.Wait()

	// 2. Partition into reuse vs upload.
	var uploadIdx []int
	var uploadURLs []string
	for i := range out {
		if out[i].ImageURL == "" {
			continue
		}
		if hashErrs[i] != nil {
			// Fail-open: the source URL still renders, so ship it rather
			// than dropping the item's image for the run.
			log.Printf("image hash failed for item %d (%s), uploading as-is: %v", out[i].ID, out[i].ImageURL, hashErrs[i])
			out[i].ImageHash = ""
			uploadIdx = append(uploadIdx, i)
			uploadURLs = append(uploadURLs, out[i].ImageURL)
			continue
		}
		if old, ok := priorByID[out[i].ID]; ok && old.ImageHash != "" && old.ImageHash == hashes[i] {
			out[i].ImageURL = old.ImageURL
			out[i].ImageHash = old.ImageHash
			continue
		}
		out[i].ImageHash = hashes[i]
		uploadIdx = append(uploadIdx, i)
		uploadURLs = append(uploadURLs, out[i].ImageURL)
	}

	if len(uploadURLs) == 0 {
		return out, nil
	}

	// 3. One batched upload, retried like every other network step.
	deployed, err := retry.Do("cdn upload", p.attempts, p.delay, p.report, func() ([]string, error) {
		return p.uploader.Upload(ctx, uploadURLs)
	})
	if err != nil {
		return nil, err
	}
	for k, i := range uploadIdx {
		out[i].ImageURL = deployed[k]
	}
	log.Printf("Uploaded %d files to CDN.", len(uploadURLs))
	return out, nil
}

func (p *Pipeline) fetchHash(ctx context.Context, imageURL string) (string, error) {
	return retry.Do("image fetch "+imageURL, p.attempts, p.delay, p.report, func() (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
		if err != nil {
			return "", err
		}
		resp, err := p.httpClient.Do(req)
		if err != nil {
			return "", &models.TransportError{Op: "image fetch", Err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", &models.TransportError{Op: "image fetch " + imageURL, Status: resp.StatusCode}
		}

		h := sha256.New()
		if _, err := io.Copy(h, resp.Body); err != nil {
			return "", fmt.Errorf("image fetch %s: %w", imageURL, err)
		}
		return hex.EncodeToString(h.Sum(nil)), nil
	})
}
