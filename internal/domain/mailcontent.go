package domain

// MailContent 待回复的来件内容
//
// 来源有两种：REST API 手工录入，或 SMTP 接收器（见 internal/smtp）
// 把收到的邮件转存为一条 MailContent 记录。
type MailContent struct {
	ContentID int    `json:"contentId" gorm:"primaryKey;autoIncrement;column:content_id"`
	Subject   string `json:"subject" gorm:"size:255;column:subject"`
	Content   string `json:"content" gorm:"type:text;column:content"`
	FromEmail string `json:"fromEmail" gorm:"size:255;column:from_email"`
	ToEmail   string `json:"toEmail" gorm:"size:255;column:to_email"`
}

// TableName 指定表名
func (MailContent) TableName() string {
	return "mail_contents"
}

// MailContentSent 已生成的回复内容
//
// 只追加不修改：同一 ContentID 可以多次生成回复，旧记录不会被
// 覆盖或作废。
type MailContentSent struct {
	MailContentSentID int    `json:"mailContentSentId" gorm:"primaryKey;autoIncrement;column:mail_content_sent_id"`
	ContentID         int    `json:"contentId" gorm:"index;column:content_id"`
	ResponseContent   string `json:"responseContent" gorm:"type:text;column:response_content"`
}

// TableName 指定表名
func (MailContentSent) TableName() string {
	return "mail_content_sents"
}
