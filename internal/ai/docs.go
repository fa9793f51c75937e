package ai

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// DocsPlaceholder 文档缺失时注入提示词的占位文本。
const DocsPlaceholder = "Case Manager documentation not available."

// LoadSystemDocs 读取系统提示词附带的纯文本文档
//
// 文档缺失或读取失败不是致命错误：返回占位文本，聊天功能照常
// 工作，只是回答缺少产品文档背景。
func LoadSystemDocs(path string, logger *zap.Logger) string {
	if path == "" {
		return DocsPlaceholder
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read system docs, using placeholder",
			zap.String("path", path),
			zap.Error(err))
		return DocsPlaceholder
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return DocsPlaceholder
	}
	return text
}

// LoadPDFDocs 抽取目录下所有 PDF 的纯文本，拼接为回复生成的上下文
//
// 单个文件解析失败只记录告警并跳过；目录缺失或没有可解析的 PDF
// 时返回占位文本。
func LoadPDFDocs(dir string, logger *zap.Logger) string {
	if dir == "" {
		return DocsPlaceholder
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("failed to read PDF docs directory, using placeholder",
			zap.String("dir", dir),
			zap.Error(err))
		return DocsPlaceholder
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var parts []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		text, err := extractPDFText(path)
		if err != nil {
			logger.Warn("failed to extract PDF text, skipping",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		if text != "" {
			parts = append(parts, "--- "+name+" ---\n"+text)
		}
	}

	if len(parts) == 0 {
		return DocsPlaceholder
	}
	return strings.Join(parts, "\n\n")
}

// extractPDFText 抽取单个 PDF 的纯文本
func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
