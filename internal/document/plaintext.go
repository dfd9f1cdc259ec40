package document

import (
	"io"
	"os"
	"unicode/utf8"

	"github.com/fyerfyer/study-planner/internal/models"
)

// PlainTextParser 纯文本解析器
type PlainTextParser struct{}

// NewPlainTextParser 创建一个新的纯文本解析器
func NewPlainTextParser() Parser {
	return &PlainTextParser{}
}

// Parse 解析纯文本文件
func (p *PlainTextParser) Parse(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", models.NewError(models.KindExtraction, "failed to open text file", err)
	}
	defer file.Close()

	return p.ParseReader(file, filePath)
}

// ParseReader 从Reader读取文本，要求内容为合法UTF-8
func (p *PlainTextParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", models.NewError(models.KindExtraction, "failed to read text file", err)
	}
	if !utf8.Valid(content) {
		return "", models.Errorf(models.KindExtraction, "text file %s is not valid UTF-8", filename)
	}
	return string(content), nil
}
