package document

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/fyerfyer/study-planner/internal/models"
)

// Parser 文档解析器接口
// 负责将不同格式的文档解析为纯文本
type Parser interface {
	// Parse 解析文档，返回文本内容
	Parse(filePath string) (string, error)

	// ParseReader 从Reader解析文档，返回文本内容
	// filename用于确定文档类型
	ParseReader(r io.Reader, filename string) (string, error)
}

// ContentType 表示文档的内容类型
type ContentType string

const (
	// PDF 文档类型
	PDF ContentType = "pdf"
	// DOCX Word文档类型
	DOCX ContentType = "docx"
	// PlainText 纯文本类型
	PlainText ContentType = "plaintext"
	// Unknown 未知类型
	Unknown ContentType = "unknown"
)

// SupportedExtensions 允许上传的文件扩展名
var SupportedExtensions = []string{".pdf", ".docx", ".txt"}

// ParserFactory 解析器工厂函数，根据文件类型创建对应的解析器
func ParserFactory(filePath string) (Parser, error) {
	contentType := DetectContentType(filePath)

	switch contentType {
	case PDF:
		return NewPDFParser(), nil
	case DOCX:
		return NewDOCXParser(), nil
	case PlainText:
		return NewPlainTextParser(), nil
	default:
		return nil, models.Errorf(models.KindUnsupportedFormat, "unsupported file format: %q", filepath.Ext(filePath))
	}
}

// DetectContentType 根据文件扩展名检测内容类型
func DetectContentType(filePath string) ContentType {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".txt":
		return PlainText
	default:
		return Unknown
	}
}

// IsSupported 判断文件名是否为支持的格式
func IsSupported(filename string) bool {
	return DetectContentType(filename) != Unknown
}
