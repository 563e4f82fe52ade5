package core

// UserProfile 是一次推荐请求的用户画像：偏好类型 + 已读 + 收藏。
//
// 它不是某一个 Node，而是：
//   - 被所有 Node 共享（只读）
//   - 驱动 Recall（类型）/ Filter（已知物品）/ Feature（文本相似度、评论情感）
type UserProfile struct {
	UserID string `json:"userId,omitempty"`

	// FavoriteGenres 为空时由已读书目推断，见 recall.ResolveGenres
	FavoriteGenres []string `json:"favoriteGenres,omitempty"`

	Read  []Book `json:"readBooks,omitempty"`
	Saved []Book `json:"savedBooks,omitempty"`
}

// KnownIDs 返回已读 ∪ 收藏的 ID 集合。
func (p *UserProfile) KnownIDs() KnownIDSet {
	if p == nil {
		return KnownIDSet{}
	}
	set := make(KnownIDSet, len(p.Read)+len(p.Saved))
	for _, b := range p.Read {
		set.Add(b.ID)
	}
	for _, b := range p.Saved {
		set.Add(b.ID)
	}
	return set
}

// Reviews 收集已读/收藏中带评论的条目，key 为图书 ID。
// 同一 ID 同时出现在已读和收藏时，已读优先。
func (p *UserProfile) Reviews() map[string]string {
	out := make(map[string]string)
	if p == nil {
		return out
	}
	for _, list := range [][]Book{p.Read, p.Saved} {
		for i := range list {
			b := &list[i]
			if b.ID == "" || !b.HasReview() {
				continue
			}
			if _, ok := out[b.ID]; ok {
				continue
			}
			out[b.ID] = b.Review
		}
	}
	return out
}

// KnownIDSet 是用户已知物品 ID 集合。
// 不变量：最终推荐结果中不允许出现集合内的 ID。
type KnownIDSet map[string]struct{}

func (s KnownIDSet) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

func (s KnownIDSet) Contains(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s[id]
	return ok
}

func (s KnownIDSet) Len() int { return len(s) }
