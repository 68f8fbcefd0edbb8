package main

import (
	"fmt"
)

// ValidateFlags 验证命令行标志,0表示未指定
func ValidateFlags(workers, timeout, topN int) error {
	if workers != 0 && (workers < 1 || workers > 100) {
		return fmt.Errorf("并发数必须在1-100之间,当前值: %d", workers)
	}

	if timeout != 0 && (timeout < 1 || timeout > 300) {
		return fmt.Errorf("请求超时必须在1-300秒之间,当前值: %d", timeout)
	}

	if topN != 0 && (topN < 1 || topN > 1000) {
		return fmt.Errorf("词频数量必须在1-1000之间,当前值: %d", topN)
	}

	return nil
}
