package model

// SysUser 系统用户
type SysUser struct {
	BaseModel
	// 基础信息
	Username string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // 哈希密码
	Email    string `gorm:"size:100"`

	// 系统级角色: admin (管理员), user (普通用户)
	Role string `gorm:"size:20;default:'user'"`

	IsActive bool `gorm:"default:true"`
}

func (SysUser) TableName() string {
	return "sys_users"
}
