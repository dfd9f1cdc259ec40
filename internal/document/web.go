package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/fyerfyer/study-planner/internal/models"
)

const (
	// DefaultURLTimeout 网页抓取的默认超时时间
	DefaultURLTimeout = 10 * time.Second
	// DefaultUserAgent 网页抓取默认使用的User-Agent
	DefaultUserAgent = "StudyPlanner/1.0"
)

// 抓取前移除的噪声元素
var webNoiseSelectors = []string{"script", "style", "nav", "footer", "iframe"}

// 抽取正文的元素，按文档顺序访问
const webTextSelector = "p, h1, h2, h3, h4"

// WebFetcher 网页文本抓取器
type WebFetcher struct {
	client    *http.Client
	userAgent string
}

// WebFetcherOption 抓取器配置选项
type WebFetcherOption func(*WebFetcher)

// WithTimeout 设置请求超时时间
func WithTimeout(timeout time.Duration) WebFetcherOption {
	return func(f *WebFetcher) {
		if timeout > 0 {
			f.client.Timeout = timeout
		}
	}
}

// WithUserAgent 设置User-Agent
func WithUserAgent(ua string) WebFetcherOption {
	return func(f *WebFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHTTPClient 使用自定义的HTTP客户端
func WithHTTPClient(client *http.Client) WebFetcherOption {
	return func(f *WebFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// NewWebFetcher 创建网页抓取器
func NewWebFetcher(opts ...WebFetcherOption) *WebFetcher {
	f := &WebFetcher{
		client:    &http.Client{Timeout: DefaultURLTimeout},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch 抓取网页并返回正文文本
func (f *WebFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", models.NewError(models.KindExtraction, "creating request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", models.NewError(models.KindExtraction, fmt.Sprintf("fetching %s", url), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", models.Errorf(models.KindExtraction, "unexpected status %d for %s", resp.StatusCode, url)
	}

	return ExtractHTMLText(resp.Body)
}

// ExtractHTMLText 去除噪声元素后，按顺序拼接段落和标题的文本
func ExtractHTMLText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", models.NewError(models.KindExtraction, "parsing HTML", err)
	}

	for _, sel := range webNoiseSelectors {
		doc.Find(sel).Remove()
	}

	var parts []string
	doc.Find(webTextSelector).Each(func(_ int, s *goquery.Selection) {
		var pieces []string
		for _, n := range s.Nodes {
			pieces = appendTextNodes(pieces, n)
		}
		if len(pieces) > 0 {
			parts = append(parts, strings.Join(pieces, " "))
		}
	})

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " "), nil
}

// appendTextNodes 深度优先收集去掉首尾空白后非空的文本节点
func appendTextNodes(dst []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			dst = append(dst, t)
		}
		return dst
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		dst = appendTextNodes(dst, c)
	}
	return dst
}
