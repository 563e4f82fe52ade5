// Package conv 从 YAML/JSON 解析出的 map[string]any 中按类型读取配置项。
package conv

import (
	"fmt"
	"time"
)

// ToFloat64 将数字或 bool 转为 float64；YAML 数字可能是 int 或 float64。
func ToFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// ConfigGet 按 key 取 T，取不到或类型不符时返回 defaultVal。
func ConfigGet[T any](m map[string]any, key string, defaultVal T) T {
	if m == nil {
		return defaultVal
	}
	t, ok := m[key].(T)
	if !ok {
		return defaultVal
	}
	return t
}

// ConfigGetInt 取整数，兼容 int / int64 / float64。
func ConfigGetInt(m map[string]any, key string, defaultVal int) int {
	f, ok := ToFloat64(m[key])
	if !ok {
		return defaultVal
	}
	if _, isBool := m[key].(bool); isBool {
		return defaultVal
	}
	return int(f)
}

// ConfigGetFloat 取浮点数。
func ConfigGetFloat(m map[string]any, key string, defaultVal float64) float64 {
	if f, ok := ToFloat64(m[key]); ok {
		return f
	}
	return defaultVal
}

// ConfigGetDuration 取时长："5s" 这样的字符串，或按秒计的数字。
func ConfigGetDuration(m map[string]any, key string, defaultVal time.Duration) time.Duration {
	switch v := m[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int, int64, float64:
		f, _ := ToFloat64(v)
		return time.Duration(f * float64(time.Second))
	}
	return defaultVal
}

// StringSlice 将 []any 转为 []string，数字按整数格式化。
func StringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
			continue
		}
		if f, ok := ToFloat64(e); ok {
			out = append(out, fmt.Sprintf("%.0f", f))
		}
	}
	return out
}

// FloatMap 将 map[string]any 转为 map[string]float64，跳过非数字项。
func FloatMap(v any) map[string]float64 {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(raw))
	for k, e := range raw {
		if f, ok := ToFloat64(e); ok {
			out[k] = f
		}
	}
	return out
}
