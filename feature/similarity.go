package feature

import "math"

// SparseVector 是按下标升序存放的稀疏向量。
type SparseVector struct {
	Indices []int
	Values  []float64
}

// IsZero 表示向量没有非零分量。
func (v SparseVector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// Cosine 计算余弦相似度，任一侧为零向量时为 0。结果截断到 [-1, 1]。
func Cosine(a, b SparseVector) float64 {
	var dot, na, nb float64
	for _, x := range a.Values {
		na += x * x
	}
	for _, x := range b.Values {
		nb += x * x
	}
	if na == 0 || nb == 0 {
		return 0
	}

	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}

	cos := dot / math.Sqrt(na*nb)
	return math.Max(-1, math.Min(1, cos))
}

// MaxSimilarity 返回候选与参考集合中最相近一条的相似度；参考集合为空时为 0。
func MaxSimilarity(candidate SparseVector, refs []SparseVector) float64 {
	best := 0.0
	for _, r := range refs {
		if s := Cosine(candidate, r); s > best {
			best = s
		}
	}
	return best
}
