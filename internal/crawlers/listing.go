package crawlers

import (
	"context"
	"net/url"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
)

const (
	// PostLinkSelector 列表页中文章链接的标记
	PostLinkSelector = "a.post-link"

	// 文章链接窗口 [ListingWindowStart, ListingWindowEnd)
	// 前10个匹配是置顶/推荐内容
	ListingWindowStart = 10
	ListingWindowEnd   = 20
)

// ListingFetcher 列表页解析器
type ListingFetcher struct {
	fetcher Fetcher
}

// NewListingFetcher 创建列表页解析器
func NewListingFetcher(fetcher Fetcher) *ListingFetcher {
	return &ListingFetcher{fetcher: fetcher}
}

// FetchLinks 获取列表页并返回窗口内的文章URL,保持文档顺序
// 匹配数不足时返回落在窗口内的部分(可能为空),不视为错误
func (l *ListingFetcher) FetchLinks(ctx context.Context, listingURL string) ([]string, error) {
	body, err := l.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, &models.FetchError{URL: listingURL, Cause: err}
	}

	doc, err := ParseHTML(body)
	if err != nil {
		return nil, &models.FetchError{URL: listingURL, Cause: &models.ParseError{URL: listingURL, What: "列表页HTML", Cause: err}}
	}

	return SelectArticleLinks(doc, listingURL), nil
}

// SelectArticleLinks 从列表页文档中选出窗口内的链接
// 没有href的锚点被跳过;相对地址按列表页URL解析为绝对地址
func SelectArticleLinks(doc Selection, listingURL string) []string {
	anchors := doc.FindAll(PostLinkSelector)
	if len(anchors) <= ListingWindowStart {
		utils.Debugf("列表页链接不足: %s (匹配 %d 个)", listingURL, len(anchors))
		return []string{}
	}

	end := ListingWindowEnd
	if len(anchors) < end {
		end = len(anchors)
	}

	base, baseErr := url.Parse(listingURL)
	links := make([]string, 0, end-ListingWindowStart)
	for _, a := range anchors[ListingWindowStart:end] {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			utils.Warnf("跳过缺少href的文章链接: %s", listingURL)
			continue
		}
		if baseErr == nil {
			if ref, err := url.Parse(href); err == nil {
				href = base.ResolveReference(ref).String()
			}
		}
		links = append(links, href)
	}
	return links
}
