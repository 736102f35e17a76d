package rag

import (
	"strings"
	"unicode"
)

// DocumentChunker 文档分块器接口
type DocumentChunker interface {
	// Chunk 将文档分割成块
	Chunk(doc Document) []DocumentChunk
}

// RecursiveCharacterChunker 递归字符分块器
//
// 使用分隔符列表递归分割文本，直到块大小在限制范围内。
type RecursiveCharacterChunker struct {
	ChunkSize    int      // 目标块大小
	ChunkOverlap int      // 块之间的重叠大小
	Separators   []string // 分隔符列表（按优先级）
}

// NewRecursiveCharacterChunker 创建递归字符分块器
func NewRecursiveCharacterChunker(chunkSize, overlap int) *RecursiveCharacterChunker {
	return &RecursiveCharacterChunker{
		ChunkSize:    chunkSize,
		ChunkOverlap: overlap,
		Separators: []string{
			"\n\n", // 段落
			"\n",   // 行
			". ",   // 句子
			"! ",   // 句子
			"? ",   // 句子
			"; ",   // 分句
			", ",   // 短语
			" ",    // 单词
			"",     // 字符
		},
	}
}

// Chunk 将文档分割成块
func (c *RecursiveCharacterChunker) Chunk(doc Document) []DocumentChunk {
	chunks := c.splitText(doc.Content, c.Separators)

	result := make([]DocumentChunk, len(chunks))
	for i, content := range chunks {
		result[i] = DocumentChunk{
			ID:         generateChunkID(doc.ID, i),
			DocumentID: doc.ID,
			Content:    content,
			Index:      i,
			Metadata:   doc.Metadata,
		}
	}

	return result
}

// splitText 递归分割文本
func (c *RecursiveCharacterChunker) splitText(text string, separators []string) []string {
	var result []string

	// 基本情况：文本足够小
	if len(text) <= c.ChunkSize {
		if strings.TrimSpace(text) != "" {
			result = append(result, text)
		}
		return result
	}

	// 没有更多分隔符，强制按字符分割
	if len(separators) == 0 {
		return c.splitByLength(text)
	}

	separator := separators[0]
	remainingSeparators := separators[1:]

	var splits []string
	if separator == "" {
		splits = c.splitByLength(text)
	} else {
		splits = strings.Split(text, separator)
	}

	// 合并和递归处理
	var currentChunk strings.Builder

	for i, split := range splits {
		splitWithSep := split
		if i < len(splits)-1 && separator != "" {
			splitWithSep += separator
		}

		potentialLength := currentChunk.Len() + len(splitWithSep)

		if potentialLength > c.ChunkSize && currentChunk.Len() > 0 {
			// 当前块已满，保存并开始新块
			chunkText := strings.TrimSpace(currentChunk.String())
			if chunkText != "" {
				result = append(result, chunkText)
			}
			currentChunk.Reset()

			// 添加重叠
			if c.ChunkOverlap > 0 && len(result) > 0 {
				lastChunk := result[len(result)-1]
				overlap := getOverlap(lastChunk, c.ChunkOverlap)
				currentChunk.WriteString(overlap)
			}
		}

		// 如果单个片段超过限制，递归分割
		if len(splitWithSep) > c.ChunkSize {
			if currentChunk.Len() > 0 {
				chunkText := strings.TrimSpace(currentChunk.String())
				if chunkText != "" {
					result = append(result, chunkText)
				}
				currentChunk.Reset()
			}
			subChunks := c.splitText(splitWithSep, remainingSeparators)
			result = append(result, subChunks...)
		} else {
			currentChunk.WriteString(splitWithSep)
		}
	}

	// 保存最后一个块
	if currentChunk.Len() > 0 {
		chunkText := strings.TrimSpace(currentChunk.String())
		if chunkText != "" {
			result = append(result, chunkText)
		}
	}

	return result
}

// splitByLength 按长度分割
func (c *RecursiveCharacterChunker) splitByLength(text string) []string {
	var result []string
	runes := []rune(text)

	step := c.ChunkSize - c.ChunkOverlap
	if step <= 0 {
		step = c.ChunkSize
	}

	for i := 0; i < len(runes); i += step {
		end := i + c.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[i:end])
		if strings.TrimSpace(chunk) != "" {
			result = append(result, chunk)
		}
		if end == len(runes) {
			break
		}
	}

	return result
}

// getOverlap 获取重叠部分
func getOverlap(text string, overlapSize int) string {
	runes := []rune(text)
	if len(runes) <= overlapSize {
		return text
	}

	// 尝试在单词边界截断
	start := len(runes) - overlapSize
	overlap := string(runes[start:])

	for i, r := range overlap {
		if unicode.IsSpace(r) {
			return strings.TrimSpace(overlap[i:])
		}
	}

	return overlap
}

var _ DocumentChunker = (*RecursiveCharacterChunker)(nil)
