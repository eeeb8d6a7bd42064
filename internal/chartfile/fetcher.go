package chartfile

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"easyplot/internal/logger"
)

// Fetcher loads chart documents from local files or http(s) URLs
type Fetcher struct {
	client *resty.Client
	log    *logger.Logger
}

// NewFetcher creates a fetcher whose remote requests time out after timeout
func NewFetcher(timeout time.Duration) *Fetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(500 * time.Millisecond)
	return NewFetcherWithClient(client)
}

// NewFetcherWithClient creates a fetcher around an existing resty client
func NewFetcherWithClient(client *resty.Client) *Fetcher {
	return &Fetcher{
		client: client,
		log:    logger.GetGlobalLogger().WithComponent("chartfile"),
	}
}

// IsRemote reports whether src is an http or https URL
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load reads and parses the document at src
func (f *Fetcher) Load(ctx context.Context, src string) (*Document, error) {
	var (
		content []byte
		err     error
	)
	if IsRemote(src) {
		content, err = f.fetch(ctx, src)
	} else {
		content, err = os.ReadFile(src)
		if err != nil {
			err = fmt.Errorf("failed to read chart document: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}

	doc, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	return doc, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	f.log.Debug("Fetching chart document", map[string]interface{}{"url": url})

	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/yaml, application/json, text/plain").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart document: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		bodyLen := len(resp.Body())
		if bodyLen > 200 {
			bodyLen = 200
		}
		f.log.Warnf("Chart document %s returned status %d, response: %s", url, resp.StatusCode(), string(resp.Body()[:bodyLen]))
		return nil, fmt.Errorf("chart document %s returned status %d", url, resp.StatusCode())
	}
	return resp.Body(), nil
}
