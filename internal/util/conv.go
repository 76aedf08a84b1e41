package util

import (
	"strconv"
)

// ParseLimit 解析分页上限，非法或越界时返回默认值
func ParseLimit(s string, def, max int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
