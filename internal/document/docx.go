package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strings"

	"github.com/fyerfyer/study-planner/internal/models"
)

// DOCXParser Word文档解析器
// 直接读取 word/document.xml，不依赖外部转换工具
type DOCXParser struct{}

// NewDOCXParser 创建一个新的DOCX解析器
func NewDOCXParser() Parser {
	return &DOCXParser{}
}

// docxDocument word/document.xml 的结构
type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Text []docxText `xml:"t"`
}

type docxText struct {
	Content string `xml:",chardata"`
}

// Parse 解析DOCX文件
func (p *DOCXParser) Parse(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", models.NewError(models.KindExtraction, "failed to read DOCX file", err)
	}
	return p.parseBytes(data)
}

// ParseReader 从Reader解析DOCX内容
func (p *DOCXParser) ParseReader(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", models.NewError(models.KindExtraction, "failed to read DOCX data", err)
	}
	return p.parseBytes(data)
}

func (p *DOCXParser) parseBytes(data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", models.NewError(models.KindExtraction, "invalid DOCX archive", err)
	}

	var body []byte
	for _, f := range reader.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", models.NewError(models.KindExtraction, "failed to open document.xml", err)
		}
		body, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", models.NewError(models.KindExtraction, "failed to read document.xml", err)
		}
		break
	}
	if body == nil {
		return "", models.Errorf(models.KindExtraction, "DOCX archive has no word/document.xml")
	}

	var doc docxDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", models.NewError(models.KindExtraction, "malformed document.xml", err)
	}
	if len(doc.Body.Paragraphs) == 0 {
		return "", models.Errorf(models.KindExtraction, "DOCX contains no readable text")
	}

	paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, run := range para.Runs {
			for _, t := range run.Text {
				sb.WriteString(t.Content)
			}
		}
		paragraphs = append(paragraphs, sb.String())
	}
	return strings.Join(paragraphs, "\n"), nil
}
