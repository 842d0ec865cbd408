package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleEN = "en"
	LocaleHI = "hi"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

var catalogs = map[string]map[string]string{
	LocaleEN: messagesEN,
	LocaleHI: messagesHI,
}

// ResolveLocale 解析请求语言：?lang= 优先，其次 X-Locale，最后 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	candidates := []string{
		c.Query("lang"),
		c.GetHeader("X-Locale"),
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		candidates = append(candidates, part)
	}
	for _, raw := range candidates {
		if locale := NormalizeLocale(raw); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// NormalizeLocale 归一化语言标签，不支持时返回空串
func NormalizeLocale(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.Index(tag, ";"); idx >= 0 {
		tag = tag[:idx]
	}
	if idx := strings.IndexAny(tag, "-_"); idx >= 0 {
		tag = tag[:idx]
	}
	if _, ok := catalogs[tag]; ok {
		return tag
	}
	return ""
}

// T 翻译消息，缺失时依次回退到英文与 key 本身
func T(locale, key string) string {
	if msgs, ok := catalogs[NormalizeLocale(locale)]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msg, ok := messagesEN[key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带参数的消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
