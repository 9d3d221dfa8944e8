package health

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ppdeploy/internal/ports"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	DefaultInterval = 500 * time.Millisecond
	DefaultAttempts = 20

	maxBodyBytes = 1 << 20
)

// HTTPProber polls a URL at a fixed interval until it answers 200 or the
// attempts run out.
type HTTPProber struct {
	client   *http.Client
	interval time.Duration
	attempts int
	logger   *zap.Logger
}

func ProvideHTTPProber(logger *zap.Logger) *HTTPProber {
	return &HTTPProber{
		client:   &http.Client{Timeout: 2 * time.Second},
		interval: DefaultInterval,
		attempts: DefaultAttempts,
		logger:   logger,
	}
}

func (p *HTTPProber) Probe(url string) (ports.HealthReport, error) {
	report := ports.HealthReport{URL: url}
	var lastErr error

	backoff := wait.Backoff{Duration: p.interval, Factor: 1.0, Steps: p.attempts}
	err := wait.ExponentialBackoff(backoff, func() (bool, error) {
		report.Attempts++
		statusCode, body, err := p.get(url)
		if err != nil {
			lastErr = err
			p.logger.Debug("Health probe failed", zap.String("url", url), zap.Int("attempt", report.Attempts), zap.Error(err))
			return false, nil
		}
		report.StatusCode = statusCode
		if statusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d", statusCode)
			return false, nil
		}
		report.Healthy = true
		report.Title = ExtractTitle(body)
		return true, nil
	})

	if err != nil {
		if wait.Interrupted(err) && lastErr != nil {
			err = lastErr
		}
		return report, fmt.Errorf("%s not healthy after %d attempts: %w", url, report.Attempts, err)
	}
	return report, nil
}

func (p *HTTPProber) get(url string) (int, string, error) {
	resp, err := p.client.Get(url)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil && !errors.Is(err, io.EOF) {
		return resp.StatusCode, "", err
	}
	return resp.StatusCode, string(body), nil
}

// ExtractTitle returns the whitespace-normalized text of the first <title>
// element, or an empty string.
func ExtractTitle(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	var find func(n *html.Node) string
	find = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "title" {
			var sb strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					sb.WriteString(c.Data)
				}
			}
			return strings.Join(strings.Fields(sb.String()), " ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title := find(c); title != "" {
				return title
			}
		}
		return ""
	}
	return find(doc)
}

var _ ports.HealthProber = (*HTTPProber)(nil)
