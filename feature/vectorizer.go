package feature

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/goccy/go-json"

	"github.com/rushteam/bookrank/pkg/textnorm"
)

// defaultTokenPattern 是 TfidfVectorizer 的默认分词规则：连续两个及以上的词字符。
const defaultTokenPattern = `(?u)\b\w\w+\b`

// VectorizerArtifact 是训练侧导出的 TF-IDF 向量化器。
//
//	{
//	  "vocabulary": {"dragon": 0, "mystery": 1},
//	  "idf": [1.69, 2.1],
//	  "lowercase": true,
//	  "token_pattern": "(?u)\\b\\w\\w+\\b",
//	  "stop_words": ["the", "and"],
//	  "ngram_range": [1, 1],
//	  "sublinear_tf": false,
//	  "binary": false,
//	  "norm": "l2",
//	  "strip_accents": null
//	}
type VectorizerArtifact struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Lowercase    *bool          `json:"lowercase"`
	TokenPattern string         `json:"token_pattern"`
	StopWords    []string       `json:"stop_words"`
	NgramRange   []int          `json:"ngram_range"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Binary       bool           `json:"binary"`
	Norm         *string        `json:"norm"`
	StripAccents *string        `json:"strip_accents"`
}

// Vectorizer 把文本转成 TF-IDF 稀疏向量。加载后只读，可并发使用。
type Vectorizer struct {
	vocab        map[string]int
	idf          []float64
	lowercase    bool
	pattern      *regexp.Regexp // nil 表示默认分词
	stopWords    map[string]struct{}
	minN, maxN   int
	sublinear    bool
	binary       bool
	norm         string
	stripAccents bool
}

// LoadVectorizer 解析 JSON 产物。
func LoadVectorizer(data []byte) (*Vectorizer, error) {
	var a VectorizerArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse vectorizer: %w", err)
	}
	return NewVectorizer(a)
}

func NewVectorizer(a VectorizerArtifact) (*Vectorizer, error) {
	if len(a.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer vocabulary is empty")
	}
	if len(a.IDF) != len(a.Vocabulary) {
		return nil, fmt.Errorf("vectorizer idf has %d entries, vocabulary has %d", len(a.IDF), len(a.Vocabulary))
	}
	for term, idx := range a.Vocabulary {
		if idx < 0 || idx >= len(a.IDF) {
			return nil, fmt.Errorf("vocabulary term %q has index %d out of range", term, idx)
		}
	}

	v := &Vectorizer{
		vocab:     a.Vocabulary,
		idf:       a.IDF,
		lowercase: a.Lowercase == nil || *a.Lowercase,
		sublinear: a.SublinearTF,
		binary:    a.Binary,
		norm:      "l2",
		minN:      1,
		maxN:      1,
	}
	if a.Norm != nil {
		v.norm = *a.Norm
	}
	switch v.norm {
	case "l1", "l2", "":
	default:
		return nil, fmt.Errorf("unsupported norm %q", v.norm)
	}
	if a.StripAccents != nil && *a.StripAccents != "" {
		v.stripAccents = true
	}
	if len(a.NgramRange) == 2 {
		v.minN, v.maxN = a.NgramRange[0], a.NgramRange[1]
		if v.minN < 1 || v.maxN < v.minN {
			return nil, fmt.Errorf("invalid ngram_range %v", a.NgramRange)
		}
	}
	if p := a.TokenPattern; p != "" && p != defaultTokenPattern {
		re, err := regexp.Compile(strings.TrimPrefix(p, "(?u)"))
		if err != nil {
			return nil, fmt.Errorf("compile token_pattern: %w", err)
		}
		v.pattern = re
	}
	if len(a.StopWords) > 0 {
		v.stopWords = make(map[string]struct{}, len(a.StopWords))
		for _, w := range a.StopWords {
			v.stopWords[w] = struct{}{}
		}
	}
	return v, nil
}

// VocabularySize 返回词表大小。
func (v *Vectorizer) VocabularySize() int { return len(v.vocab) }

// Transform 计算文本的 TF-IDF 向量；没有词命中词表时返回零向量。
func (v *Vectorizer) Transform(text string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.analyze(text) {
		if idx, ok := v.vocab[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return SparseVector{}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		switch {
		case v.binary:
			tf = 1
		case v.sublinear:
			tf = 1 + math.Log(tf)
		}
		values[i] = tf * v.idf[idx]
	}

	var norm float64
	switch v.norm {
	case "l2":
		for _, x := range values {
			norm += x * x
		}
		norm = math.Sqrt(norm)
	case "l1":
		for _, x := range values {
			norm += math.Abs(x)
		}
	}
	if norm > 0 {
		for i := range values {
			values[i] /= norm
		}
	}
	return SparseVector{Indices: indices, Values: values}
}

// analyze 预处理、分词、去停用词并生成 n-gram。
func (v *Vectorizer) analyze(text string) []string {
	if v.stripAccents {
		text = textnorm.StripAccents(text)
	}
	if v.lowercase {
		text = strings.ToLower(text)
	}

	var tokens []string
	if v.pattern != nil {
		tokens = v.pattern.FindAllString(text, -1)
	} else {
		tokens = wordTokens(text)
	}
	if v.stopWords != nil {
		kept := tokens[:0]
		for _, t := range tokens {
			if _, stop := v.stopWords[t]; !stop {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}
	if v.minN == 1 && v.maxN == 1 {
		return tokens
	}

	var out []string
	if v.minN == 1 {
		out = append(out, tokens...)
	}
	for n := max(v.minN, 2); n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+n], " "))
		}
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordTokens 等价于默认分词规则：取所有长度 >= 2 的连续词字符片段。
func wordTokens(text string) []string {
	var tokens []string
	start, n := -1, 0
	flush := func(end int) {
		if start >= 0 && n >= 2 {
			tokens = append(tokens, text[start:end])
		}
		start, n = -1, 0
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			n++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}
