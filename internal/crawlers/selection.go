package crawlers

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selection 选择器能力接口
// 提取逻辑只依赖该接口,与具体的HTML解析库无关
type Selection interface {
	// FindOne 返回第一个匹配的后代元素
	FindOne(selector string) (Selection, bool)
	// FindAll 按文档顺序返回所有匹配的后代元素
	FindAll(selector string) []Selection
	// Attr 读取属性值,第二个返回值表示属性是否存在
	Attr(name string) (string, bool)
	// Text 返回元素及其后代的全部文本
	Text() string
}

// ParseHTML 将原始HTML解析为文档根节点
func ParseHTML(body []byte) (Selection, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}
	return goquerySelection{sel: doc.Selection}, nil
}

// goquerySelection 基于goquery的Selection实现
type goquerySelection struct {
	sel *goquery.Selection
}

func (g goquerySelection) FindOne(selector string) (Selection, bool) {
	found := g.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return goquerySelection{sel: found}, true
}

func (g goquerySelection) FindAll(selector string) []Selection {
	found := g.sel.Find(selector)
	result := make([]Selection, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		result = append(result, goquerySelection{sel: s})
	})
	return result
}

func (g goquerySelection) Attr(name string) (string, bool) {
	return g.sel.Attr(name)
}

func (g goquerySelection) Text() string {
	return g.sel.Text()
}

// trimmedText 去掉首尾空白的文本
func trimmedText(s Selection) string {
	return strings.TrimSpace(s.Text())
}
