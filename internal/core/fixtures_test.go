package core

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/RecoveryAshes/newscrawler/internal/models"
)

// newsSite 模拟新闻站点
//
//	/page/1/ ~ /page/3/  每页22个链接,窗口内第13个文章缺少标题
//	/page/4/             只有5个链接
//	其他页               500
type newsSite struct {
	server *httptest.Server
}

func newNewsSite(t *testing.T) *newsSite {
	t.Helper()
	site := &newsSite{}
	site.server = httptest.NewServer(http.HandlerFunc(site.handle))
	t.Cleanup(site.server.Close)
	return site
}

func (s *newsSite) crawlConfig(first, last int) models.CrawlConfig {
	return models.CrawlConfig{
		ListingURLTemplate: s.server.URL + "/page/%d/",
		FirstPage:          first,
		LastPage:           last,
		MaxWorkers:         4,
		RequestTimeout:     5,
		GraphIndex:         5,
		TopN:               10,
	}
}

func (s *newsSite) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}

	switch parts[0] {
	case "page":
		page, _ := strconv.Atoi(parts[1])
		switch {
		case page >= 1 && page <= 3:
			fmt.Fprint(w, listingPage(page, 22))
		case page == 4:
			fmt.Fprint(w, listingPage(page, 5))
		default:
			http.Error(w, "unavailable", http.StatusInternalServerError)
		}
	case "haber":
		var page, index int
		if _, err := fmt.Sscanf(parts[1], "%d-%d", &page, &index); err != nil {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, articlePage(page, index))
	default:
		http.NotFound(w, r)
	}
}

func listingPage(page, anchors int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < anchors; i++ {
		fmt.Fprintf(&b, `<a class="post-link" href="/haber/%d-%d/">haber</a>`, page, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func articlePage(page, index int) string {
	title := fmt.Sprintf(`<h1 class="single_title">Haber %d-%d</h1>`, page, index)
	if index == 13 {
		title = ""
	}
	updated := fmt.Sprintf("2023-05-0%dT12:00:00+03:00", page)
	return fmt.Sprintf(`<html><head>
<script type="application/ld+json" class="rank-math-schema">{"@graph":[{},{},{},{},{},{"datePublished":"2023-05-01T09:00:00+03:00","dateModified":%q}]}</script>
</head><body>%s
<h2 class="single_excerpt">Özet</h2>
<img class="rhd-article-news-img" data-src="https://cdn.example.com/%d-%d.jpg">
<div class="yazi_icerik"><p>gündem haber</p><p>sayfa%d</p></div>
</body></html>`, updated, title, page, index, page)
}
