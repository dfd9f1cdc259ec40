package document

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/fyerfyer/study-planner/internal/models"
)

// PDFParser PDF文档解析器
type PDFParser struct{}

// NewPDFParser 创建一个新的PDF解析器
func NewPDFParser() Parser {
	return &PDFParser{}
}

// Parse 解析PDF文件并提取其文本内容
// pdfcpu 负责结构校验，文本经由字体的 Encoding/ToUnicode 映射解码
func (p *PDFParser) Parse(filePath string) (text string, err error) {
	conf := model.NewDefaultConfiguration()
	if err := api.ValidateFile(filePath, conf); err != nil {
		return "", models.NewError(models.KindExtraction, "invalid PDF structure", err)
	}

	// 解码库遇到畸形内容流时会 panic
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = models.NewError(models.KindExtraction, "failed to decode PDF text", fmt.Errorf("%v", r))
		}
	}()

	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return "", models.NewError(models.KindExtraction, "failed to open PDF", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", models.Errorf(models.KindExtraction, "PDF contains no readable pages")
	}

	texts := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := pageText(page)
		if err != nil {
			return "", models.NewError(models.KindExtraction, fmt.Sprintf("failed to read page %d", i), err)
		}
		if content = strings.TrimSpace(content); content != "" {
			texts = append(texts, content)
		}
	}

	if len(texts) == 0 {
		return "", models.Errorf(models.KindExtraction, "no text content found in PDF")
	}
	return strings.Join(texts, "\n"), nil
}

// pageText 取出页面文本并去掉控制字符
// 缺少 ToUnicode 映射的复合字体会解码出 NUL 等字节，这些不算可读文本
func pageText(page pdf.Page) (string, error) {
	raw, err := page.GetPlainText(nil)
	if err != nil {
		return "", err
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == utf8.RuneError || unicode.IsControl(r):
			return -1
		}
		return r
	}, raw), nil
}

// ParseReader 从Reader解析PDF，内容先落到临时文件
func (p *PDFParser) ParseReader(r io.Reader, filename string) (string, error) {
	tmpFile, err := os.CreateTemp("", "pdf_reader_*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return "", models.NewError(models.KindExtraction, "failed to buffer PDF data", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	return p.Parse(tmpFile.Name())
}
