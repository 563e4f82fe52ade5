package catalog

import (
	"strings"

	"github.com/rushteam/bookrank/pkg/metrics"
)

// 拒绝原因，同时作为指标 label。
const (
	ReasonError       = "error"
	ReasonNoInfo      = "no_volume_info"
	ReasonLanguage    = "language"
	ReasonTitle       = "title"
	ReasonNoPublisher = "no_publisher"
	ReasonNoDesc      = "no_description"
	ReasonNoImage     = "no_image_links"
)

// ValidateOptions 控制有效性判定。
type ValidateOptions struct {
	// Language 目标语言，默认 en
	Language string `yaml:"language"`

	// RequireImageLinks 旧版规则：要求有封面图。默认关闭。
	RequireImageLinks bool `yaml:"require_image_links"`
}

func (o ValidateOptions) language() string {
	if o.Language == "" {
		return "en"
	}
	return o.Language
}

var placeholderTitles = map[string]struct{}{
	"error":    {},
	"untitled": {},
}

// Validate 按顺序检查条目是否完整，返回是否通过以及第一条未通过的原因。
func Validate(v *Volume, opts ValidateOptions) (bool, string) {
	if v == nil || v.HasError() {
		return false, ReasonError
	}
	info := v.VolumeInfo
	if info == nil {
		return false, ReasonNoInfo
	}
	if info.Language != opts.language() {
		return false, ReasonLanguage
	}
	title := strings.ToLower(strings.TrimSpace(info.Title))
	if title == "" {
		return false, ReasonTitle
	}
	if _, ok := placeholderTitles[title]; ok {
		return false, ReasonTitle
	}
	if strings.TrimSpace(info.Publisher) == "" {
		return false, ReasonNoPublisher
	}
	if strings.TrimSpace(info.Description) == "" {
		return false, ReasonNoDesc
	}
	if opts.RequireImageLinks && info.ImageLinks.empty() {
		return false, ReasonNoImage
	}
	return true, ""
}

func countRejected(reason string) {
	metrics.CatalogRejected.WithLabelValues(reason).Inc()
}
