package smtp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// ParsedEmail 表示解析后的邮件内容。
type ParsedEmail struct {
	Subject string
	From    string
	To      string
	Text    string
}

// ParseEmail 解析邮件，提取主题与正文纯文本。
//
// 只保留 text/plain 部分；HTML-only 邮件退化为原样保存 HTML 源码，
// 附件一律忽略。
func ParseEmail(rawEmail []byte) (*ParsedEmail, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(rawEmail))
	if err != nil {
		return nil, fmt.Errorf("parse mail: %w", err)
	}

	parsed := &ParsedEmail{
		Subject: decodeHeader(msg.Header.Get("Subject")),
		From:    msg.Header.Get("From"),
		To:      msg.Header.Get("To"),
	}

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	if err != nil {
		// 没有 Content-Type 或解析失败，当作纯文本处理
		body, _ := io.ReadAll(msg.Body)
		parsed.Text = string(body)
		return parsed, nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		text, html := extractMultipart(msg.Body, params["boundary"])
		if text != "" {
			parsed.Text = text
		} else {
			parsed.Text = html
		}
		return parsed, nil
	}

	body := decodeBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	parsed.Text = body
	return parsed, nil
}

// extractMultipart 遍历多部分邮件，取第一个 text/plain 与 text/html
func extractMultipart(body io.Reader, boundary string) (text, html string) {
	if boundary == "" {
		return "", ""
	}

	reader := multipart.NewReader(body, boundary)
	for {
		part, err := reader.NextPart()
		if err != nil {
			return text, html
		}

		mediaType, params, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(mediaType, "multipart/"):
			// 嵌套多部分（常见于 multipart/alternative 套在 mixed 里）
			innerText, innerHTML := extractMultipart(part, params["boundary"])
			if text == "" {
				text = innerText
			}
			if html == "" {
				html = innerHTML
			}
		case mediaType == "text/plain" && text == "":
			text = decodeBody(part, part.Header.Get("Content-Transfer-Encoding"))
		case mediaType == "text/html" && html == "":
			html = decodeBody(part, part.Header.Get("Content-Transfer-Encoding"))
		}
	}
}

// decodeBody 按传输编码解码正文
func decodeBody(r io.Reader, encoding string) string {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	return string(data)
}

// decodeHeader 解码 RFC 2047 编码的邮件头
func decodeHeader(value string) string {
	decoder := mime.WordDecoder{}
	decoded, err := decoder.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}
