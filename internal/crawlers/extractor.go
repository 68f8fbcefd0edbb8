package crawlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RecoveryAshes/newscrawler/internal/models"
	"github.com/RecoveryAshes/newscrawler/internal/utils"
)

// 文章页中各字段的标记
const (
	TitleSelector    = "h1.single_title"
	SummarySelector  = "h2.single_excerpt"
	BodySelector     = "div.yazi_icerik"
	ImageSelector    = "img.rhd-article-news-img"
	MetadataSelector = "script.rank-math-schema"

	// LazySourceAttr 懒加载图片的真实地址属性
	LazySourceAttr = "data-src"
)

// FieldExtractor 文章字段提取器
type FieldExtractor struct {
	fetcher    Fetcher
	graphIndex int
}

// NewFieldExtractor 创建文章字段提取器
func NewFieldExtractor(fetcher Fetcher, graphIndex int) *FieldExtractor {
	if graphIndex < 0 {
		graphIndex = DefaultGraphIndex
	}
	return &FieldExtractor{
		fetcher:    fetcher,
		graphIndex: graphIndex,
	}
}

// Extract 获取并解析单个文章页
// 失败时返回 *models.ExtractError 且记录为nil;每条失败路径都会记录错误日志
func (e *FieldExtractor) Extract(ctx context.Context, pageURL string) (article *models.ArticleRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			article = nil
			err = &models.ExtractError{Kind: models.ExtractUnexpected, URL: pageURL, Cause: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			logExtractFailure(pageURL, err)
		}
	}()

	body, fetchErr := e.fetcher.Fetch(ctx, pageURL)
	if fetchErr != nil {
		return nil, &models.ExtractError{Kind: models.ExtractFetchFailed, URL: pageURL, Cause: fetchErr}
	}

	doc, parseErr := ParseHTML(body)
	if parseErr != nil {
		return nil, &models.ExtractError{Kind: models.ExtractUnexpected, URL: pageURL, Cause: parseErr}
	}

	return ParseArticle(doc, pageURL, e.graphIndex)
}

// ParseArticle 从已解析的文章页文档构建ArticleRecord
// 任何必需字段缺失都不会返回部分记录
func ParseArticle(doc Selection, pageURL string, graphIndex int) (*models.ArticleRecord, error) {
	title, ok := doc.FindOne(TitleSelector)
	if !ok {
		return nil, missingField(pageURL, "header")
	}
	summary, ok := doc.FindOne(SummarySelector)
	if !ok {
		return nil, missingField(pageURL, "summary")
	}
	container, ok := doc.FindOne(BodySelector)
	if !ok {
		return nil, missingField(pageURL, "body")
	}
	script, ok := doc.FindOne(MetadataSelector)
	if !ok {
		return nil, missingField(pageURL, "metadata")
	}

	dates, err := ParseArticleDates(script.Text(), graphIndex)
	if err != nil {
		return nil, &models.ExtractError{
			Kind:  models.ExtractInvalidMetadata,
			URL:   pageURL,
			Cause: &models.ParseError{URL: pageURL, What: "JSON-LD元数据", Cause: err},
		}
	}

	return &models.ArticleRecord{
		URL:         pageURL,
		Header:      trimmedText(title),
		Summary:     trimmedText(summary),
		Body:        joinParagraphs(container),
		ImageURLs:   lazyImageSources(doc, pageURL),
		PublishDate: dates.Published,
		UpdateDate:  dates.Modified,
	}, nil
}

// joinParagraphs 正文容器内所有段落文本,逐段trim后以单个空格拼接
func joinParagraphs(container Selection) string {
	paragraphs := container.FindAll("p")
	texts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		texts = append(texts, trimmedText(p))
	}
	return strings.Join(texts, " ")
}

// lazyImageSources 按文档顺序读取图片的data-src,缺少属性的图片被跳过
func lazyImageSources(doc Selection, pageURL string) []string {
	images := doc.FindAll(ImageSelector)
	sources := make([]string, 0, len(images))
	for i, img := range images {
		src, ok := img.Attr(LazySourceAttr)
		if !ok {
			utils.Debugf("图片缺少%s属性,跳过: %s (第%d张)", LazySourceAttr, pageURL, i+1)
			continue
		}
		sources = append(sources, src)
	}
	return sources
}

func missingField(pageURL, field string) error {
	return &models.ExtractError{
		Kind:  models.ExtractMissingField,
		URL:   pageURL,
		Field: field,
		Cause: &models.ParseError{URL: pageURL, What: "缺少字段 " + field},
	}
}

func logExtractFailure(pageURL string, err error) {
	event := utils.Logger.Error().Str("url", pageURL).Err(err)
	var extractErr *models.ExtractError
	if errors.As(err, &extractErr) {
		event = event.Str("kind", extractErr.Kind.String())
		if extractErr.Field != "" {
			event = event.Str("field", extractErr.Field)
		}
	}
	event.Msg("文章提取失败")
}
