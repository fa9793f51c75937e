package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Server 基于 stdio 的 JSON-RPC 服务器。
//
// 每行一条 JSON-RPC 消息，顺序处理；stdout 专用于协议消息，
// 日志走 stderr（见 logger.NewStdioLogger）。
type Server struct {
	dispatcher *Dispatcher
	in         io.Reader
	out        io.Writer
	logger     *zap.Logger
}

// NewServer 创建 stdio 服务器。
func NewServer(dispatcher *Dispatcher, in io.Reader, out io.Writer, logger *zap.Logger) *Server {
	return &Server{dispatcher: dispatcher, in: in, out: out, logger: logger}
}

// Run 逐行读取请求直到输入关闭或上下文取消。
//
// 无法解析的行回 -32700，不中断循环。
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// 提升单行上限，容纳较大的工具结果
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request line", zap.Error(err))
			if err := s.write(NewError(nil, CodeParseError, "Parse error", err.Error())); err != nil {
				return err
			}
			continue
		}

		resp := s.dispatcher.Dispatch(&req)
		if err := s.write(resp); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	return nil
}

// write 序列化并写出一条响应（每条一行）
func (s *Server) write(resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
