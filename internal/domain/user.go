package domain

// User 案件管理系统中的用户实体
//
// 用户可以被指派案件（Case.AssignedUserID）并产生任务动作记录
// （TaskAction.UserID）。用户名在系统内唯一，登录时仅凭用户名换取令牌。
type User struct {
	UserID    int    `json:"userId" gorm:"primaryKey;autoIncrement;column:user_id"`
	UserName  string `json:"userName" gorm:"uniqueIndex;size:100;column:user_name"`
	FirstName string `json:"firstName" gorm:"size:100;column:first_name"`
	LastName  string `json:"lastName" gorm:"size:100;column:last_name"`
	Address   string `json:"address" gorm:"size:255;column:address"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 返回用户全名（名 + 姓）
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
