package core

import "github.com/rushteam/bookrank/pkg/utils"

// RecommendContext 承载一次请求的用户画像与派生信息，贯穿整个 Pipeline 透传。
// 由编排层在请求开始时构建，各 Node 只读。
type RecommendContext struct {
	RequestID string

	Profile *UserProfile

	// Genres 是最终生效的偏好类型（调用方提供或推断得到）
	Genres []string

	// KnownIDs 是已读 ∪ 收藏
	KnownIDs KnownIDSet

	// Reviews 是用户对已知图书的评论，key 为图书 ID
	Reviews map[string]string

	// Labels 是请求级标签，例如 genre_source=inferred
	Labels map[string]utils.Label

	// Params 请求级参数，例如 max_results_per_genre
	Params map[string]any
}

// NewRecommendContext 根据画像构建上下文，已知 ID 和评论一次算好。
func NewRecommendContext(requestID string, profile *UserProfile) *RecommendContext {
	if profile == nil {
		profile = &UserProfile{}
	}
	return &RecommendContext{
		RequestID: requestID,
		Profile:   profile,
		KnownIDs:  profile.KnownIDs(),
		Reviews:   profile.Reviews(),
		Labels:    make(map[string]utils.Label),
		Params:    make(map[string]any),
	}
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// ParamInt 读取整型参数，缺失或类型不符时返回默认值。
func (rctx *RecommendContext) ParamInt(key string, def int) int {
	if rctx == nil || rctx.Params == nil {
		return def
	}
	if v, ok := rctx.Params[key].(int); ok {
		return v
	}
	return def
}
