package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePageRange 解析页码范围参数
// 支持 "N" (单页) 和 "A-B" (闭区间) 两种格式
func ParsePageRange(spec string) (first, last int, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, fmt.Errorf("页码范围不能为空")
	}

	left, right, isRange := strings.Cut(spec, "-")
	first, err = strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, fmt.Errorf("起始页码无效 %q: %w", left, err)
	}
	last = first
	if isRange {
		last, err = strconv.Atoi(strings.TrimSpace(right))
		if err != nil {
			return 0, 0, fmt.Errorf("结束页码无效 %q: %w", right, err)
		}
	}

	if first < 1 {
		return 0, 0, fmt.Errorf("页码必须从1开始: %d", first)
	}
	if last < first {
		return 0, 0, fmt.Errorf("结束页码不能小于起始页码: %d-%d", first, last)
	}
	return first, last, nil
}
