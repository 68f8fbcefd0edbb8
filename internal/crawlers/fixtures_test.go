package crawlers

import (
	"fmt"
	"strings"
)

// graphJSON 生成一个rank-math风格的JSON-LD,日期节点位于@graph[5]
func graphJSON(published, modified string) string {
	return fmt.Sprintf(`{"@context":"https://schema.org","@graph":[
		{"@type":"Organization","name":"TNT"},
		{"@type":"WebSite","name":"TNT"},
		{"@type":"ImageObject","url":"https://example.com/logo.png"},
		{"@type":"BreadcrumbList","itemListElement":[]},
		{"@type":"WebPage","name":"Haber"},
		{"@type":"NewsArticle","headline":"Haber","datePublished":%q,"dateModified":%q}
	]}`, published, modified)
}

type articleFixture struct {
	Title    string
	Summary  string
	Paras    []string
	Images   []string // 空字符串表示缺少data-src
	Metadata string
	NoTitle  bool
	NoBody   bool
	NoScript bool
}

func defaultArticle() articleFixture {
	return articleFixture{
		Title:    "  Gündem başlığı  ",
		Summary:  "\n Kısa özet \n",
		Paras:    []string{"  Birinci paragraf. ", "İkinci   paragraf.", "\tÜçüncü\t"},
		Images:   []string{"https://cdn.example.com/1.jpg", "https://cdn.example.com/2.jpg"},
		Metadata: graphJSON("2023-05-01T10:00:00+03:00", "2023-05-02T23:30:00+03:00"),
	}
}

func (f articleFixture) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head>")
	if !f.NoScript {
		fmt.Fprintf(&b, `<script type="application/ld+json" class="rank-math-schema">%s</script>`, f.Metadata)
	}
	b.WriteString("</head><body>")
	if !f.NoTitle {
		fmt.Fprintf(&b, `<h1 class="single_title">%s</h1>`, f.Title)
	}
	fmt.Fprintf(&b, `<h2 class="single_excerpt">%s</h2>`, f.Summary)
	for _, img := range f.Images {
		if img == "" {
			b.WriteString(`<img class="rhd-article-news-img" src="placeholder.gif">`)
			continue
		}
		fmt.Fprintf(&b, `<img class="rhd-article-news-img" src="placeholder.gif" data-src="%s">`, img)
	}
	if !f.NoBody {
		b.WriteString(`<div class="yazi_icerik">`)
		for _, p := range f.Paras {
			fmt.Fprintf(&b, "<p>%s</p>", p)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// listingHTML 生成包含n个a.post-link的列表页,链接指向 base/haber-<i>/
func listingHTML(base string, n int) string {
	var b strings.Builder
	b.WriteString("<html><body><a class=\"menu\" href=\"/about\">About</a>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<article><a class="post-link" href="%s/haber-%d/">Haber %d</a></article>`, base, i, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}
