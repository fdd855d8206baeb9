package httpx

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"

	"github.com/veggiemap/menuscout/internal/urlutil"
)

// DirectFetcher fetches a page itself and renders its plain text. It serves
// as the fallback when the relay is unavailable, and as the link harvester
// for extra menu-page candidates.
type DirectFetcher struct {
	userAgent string
	timeout   time.Duration
}

func NewDirectFetcher(userAgent string) *DirectFetcher {
	if userAgent == "" {
		userAgent = "menuscout-bot/1.0"
	}
	return &DirectFetcher{
		userAgent: userAgent,
		timeout:   15 * time.Second,
	}
}

func (f *DirectFetcher) FetchText(ctx context.Context, target string) (string, error) {
	body, err := f.fetchBytes(ctx, target)
	if err != nil {
		return "", err
	}
	return RenderText(body)
}

// MenuLinks fetches a page and collects same-host links whose href or
// anchor text mentions a menu path segment. Errors degrade to no links.
func (f *DirectFetcher) MenuLinks(ctx context.Context, target string) []string {
	target = urlutil.Normalize(target)
	base, err := url.Parse(target)
	if err != nil {
		return nil
	}

	body, err := f.fetchBytes(ctx, target)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if len(links) >= 10 {
			return
		}
		href, _ := sel.Attr("href")
		abs, err := base.Parse(href)
		if err != nil || abs.Hostname() == "" {
			return
		}
		if urlutil.NormalizeHost(abs.Hostname()) != urlutil.NormalizeHost(base.Hostname()) {
			return
		}
		if !mentionsMenu(abs.Path) && !mentionsMenu(sel.Text()) {
			return
		}
		abs.Fragment = ""
		link := urlutil.Normalize(abs.String())
		if _, ok := seen[link]; ok {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})
	return links
}

func mentionsMenu(s string) bool {
	lower := strings.ToLower(s)
	for _, seg := range urlutil.MenuSegments {
		if strings.Contains(lower, seg) {
			return true
		}
	}
	return false
}

func (f *DirectFetcher) fetchBytes(ctx context.Context, target string) ([]byte, error) {
	target = urlutil.Normalize(target)

	c := colly.NewCollector(colly.UserAgent(f.userAgent))
	c.IgnoreRobotsTxt = false
	c.SetRequestTimeout(f.timeout)

	var body []byte
	status := 0
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		reqCtx := context.Background()
		if v := r.Ctx.GetAny("ctx"); v != nil {
			if stored, ok := v.(context.Context); ok {
				reqCtx = stored
			}
		}
		if reqCtx.Err() != nil {
			r.Abort()
		}
	})
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		reqErr = err
	})

	collyCtx := colly.NewContext()
	collyCtx.Put("ctx", ctx)

	if err := c.Request(http.MethodGet, target, nil, collyCtx, nil); err != nil {
		return nil, err
	}
	if reqErr != nil {
		return nil, &FetchError{Status: status, Err: reqErr}
	}
	if status >= 400 {
		return nil, &FetchError{Status: status, Err: fmt.Errorf("status %d", status)}
	}
	return body, nil
}

// blockTags are elements that end a text line when rendering HTML to the
// line-oriented plain text the extraction heuristic expects.
var blockTags = map[string]struct{}{
	"p": {}, "div": {}, "li": {}, "ul": {}, "ol": {}, "br": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"tr": {}, "td": {}, "th": {}, "table": {}, "section": {}, "article": {},
	"header": {}, "footer": {}, "nav": {},
}

var skipTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "template": {}, "head": {},
	"svg": {}, "iframe": {},
}

// RenderText converts an HTML document into trimmed text lines, one per
// block element, roughly matching what the relay produces.
func RenderText(htmlBody []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(htmlBody))
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	renderNode(doc, &sb)

	var lines []string
	for _, raw := range strings.Split(sb.String(), "\n") {
		line := strings.Join(strings.Fields(raw), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func renderNode(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		if _, skip := skipTags[n.Data]; skip {
			return
		}
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		renderNode(child, sb)
	}
	if n.Type == html.ElementNode {
		if _, block := blockTags[n.Data]; block {
			sb.WriteByte('\n')
		}
	}
}
