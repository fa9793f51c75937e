package smtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlainEmail(t *testing.T) {
	raw := []byte("From: sender@example.com\r\n" +
		"To: support@casemanager.local\r\n" +
		"Subject: Need help with my case\r\n" +
		"\r\n" +
		"Hello, my case seems stuck.\r\n")

	parsed, err := ParseEmail(raw)
	require.NoError(t, err)
	assert.Equal(t, "Need help with my case", parsed.Subject)
	assert.Contains(t, parsed.Text, "my case seems stuck")
}

func TestParseMultipartPrefersPlainText(t *testing.T) {
	raw := []byte("From: sender@example.com\r\n" +
		"To: support@casemanager.local\r\n" +
		"Subject: Multipart\r\n" +
		"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
		"\r\n" +
		"--b1\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"plain body\r\n" +
		"--b1\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>html body</p>\r\n" +
		"--b1--\r\n")

	parsed, err := ParseEmail(raw)
	require.NoError(t, err)
	assert.Contains(t, parsed.Text, "plain body")
	assert.NotContains(t, parsed.Text, "html body")
}

func TestParseQuotedPrintableBody(t *testing.T) {
	raw := []byte("From: sender@example.com\r\n" +
		"Subject: QP\r\n" +
		"Content-Type: text/plain\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		"caf=C3=A9\r\n")

	parsed, err := ParseEmail(raw)
	require.NoError(t, err)
	assert.Contains(t, parsed.Text, "café")
}

func TestParseEncodedSubject(t *testing.T) {
	raw := []byte("From: sender@example.com\r\n" +
		"Subject: =?utf-8?q?caf=C3=A9_question?=\r\n" +
		"\r\n" +
		"body\r\n")

	parsed, err := ParseEmail(raw)
	require.NoError(t, err)
	assert.Equal(t, "café question", parsed.Subject)
}

func TestParseInvalidEmail(t *testing.T) {
	_, err := ParseEmail([]byte("not an email"))
	assert.Error(t, err)
}

func TestConnectionLimiter(t *testing.T) {
	limiter := NewConnectionLimiter(2, 100)

	assert.True(t, limiter.Acquire())
	assert.True(t, limiter.Acquire())
	// 超过并发上限
	assert.False(t, limiter.Acquire())

	limiter.Release()
	assert.True(t, limiter.Acquire())
	assert.Equal(t, 2, limiter.Current())
}
