package smtp

import (
	"fmt"
	"io"
	"strings"
	"time"

	gosmtp "github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"casemanager/backend/internal/service"
)

// Backend 实现 go-smtp 的 Backend 接口。
//
// 这是一个只接收邮件的 SMTP 服务器：发送到配置域名的邮件被解析
// 后转存为 MailContent 记录，等待后续生成回复。不支持对外发送，
// 不做邮件中继。
type Backend struct {
	contents *service.MailContentService
	domain   string
	limiter  *ConnectionLimiter
	logger   *zap.Logger
}

// NewBackend 创建 SMTP Backend。
func NewBackend(contents *service.MailContentService, domain string, logger *zap.Logger) *Backend {
	return &Backend{
		contents: contents,
		domain:   strings.ToLower(domain),
		limiter:  NewConnectionLimiter(32, 10),
		logger:   logger,
	}
}

// NewSession 创建新的 SMTP 会话。
func (b *Backend) NewSession(c *gosmtp.Conn) (gosmtp.Session, error) {
	if !b.limiter.Acquire() {
		return nil, &gosmtp.SMTPError{
			Code:         421,
			EnhancedCode: gosmtp.EnhancedCode{4, 7, 0},
			Message:      "too many connections, try again later",
		}
	}
	return &session{backend: b}, nil
}

type session struct {
	backend     *Backend
	fromAddress string
	recipients  []string
}

// Mail 处理 MAIL 命令。
func (s *session) Mail(from string, opts *gosmtp.MailOptions) error {
	s.fromAddress = normalizeAddress(from)
	return nil
}

// Rcpt 处理 RCPT 命令。
//
// 只接受发送到配置域名的邮件，其余一律 550 拒绝，避免服务器
// 被当作开放中继。
func (s *session) Rcpt(to string, _ *gosmtp.RcptOptions) error {
	addr := normalizeAddress(to)

	parts := strings.Split(addr, "@")
	if len(parts) != 2 {
		return &gosmtp.SMTPError{
			Code:         501,
			EnhancedCode: gosmtp.EnhancedCode{5, 1, 3},
			Message:      "invalid recipient address",
		}
	}

	if !strings.EqualFold(parts[1], s.backend.domain) {
		return &gosmtp.SMTPError{
			Code:         550,
			EnhancedCode: gosmtp.EnhancedCode{5, 1, 1},
			Message:      "relay not permitted",
		}
	}

	s.recipients = append(s.recipients, addr)
	return nil
}

// Data 处理邮件内容。
func (s *session) Data(r io.Reader) error {
	if len(s.recipients) == 0 {
		return &gosmtp.SMTPError{
			Code:         503,
			EnhancedCode: gosmtp.EnhancedCode{5, 5, 1},
			Message:      "no valid recipients",
		}
	}

	raw, err := io.ReadAll(io.LimitReader(r, 10*1024*1024))
	if err != nil {
		return fmt.Errorf("failed to read message data: %w", err)
	}

	parsed, err := ParseEmail(raw)
	if err != nil {
		s.backend.logger.Warn("failed to parse incoming mail",
			zap.String("from", s.fromAddress),
			zap.Error(err))
		return &gosmtp.SMTPError{
			Code:         554,
			EnhancedCode: gosmtp.EnhancedCode{5, 6, 0},
			Message:      "message could not be parsed",
		}
	}

	for _, rcpt := range s.recipients {
		content, err := s.backend.contents.Create(service.CreateMailContentInput{
			Subject:   parsed.Subject,
			Content:   parsed.Text,
			FromEmail: s.fromAddress,
			ToEmail:   rcpt,
		})
		if err != nil {
			s.backend.logger.Error("failed to store incoming mail",
				zap.String("from", s.fromAddress),
				zap.String("to", rcpt),
				zap.Error(err))
			return &gosmtp.SMTPError{
				Code:         451,
				EnhancedCode: gosmtp.EnhancedCode{4, 3, 0},
				Message:      "temporary storage failure",
			}
		}

		s.backend.logger.Info("incoming mail stored",
			zap.Int("content_id", content.ContentID),
			zap.String("from", s.fromAddress),
			zap.String("to", rcpt),
			zap.String("subject", parsed.Subject))
	}

	return nil
}

// Reset 重置会话状态。
func (s *session) Reset() {
	s.fromAddress = ""
	s.recipients = nil
}

// Logout 结束会话。
func (s *session) Logout() error {
	s.backend.limiter.Release()
	return nil
}

// NewServer 构建配置好的 SMTP 服务器。
func NewServer(backend *Backend, bindAddr, domain string) *gosmtp.Server {
	server := gosmtp.NewServer(backend)
	server.Addr = bindAddr
	server.Domain = domain
	server.ReadTimeout = 60 * time.Second
	server.WriteTimeout = 60 * time.Second
	server.MaxMessageBytes = 10 * 1024 * 1024
	server.MaxRecipients = 10
	server.AllowInsecureAuth = false
	return server
}

// normalizeAddress 规范化邮件地址
func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	addr = strings.Trim(addr, "<>")
	return strings.ToLower(addr)
}
