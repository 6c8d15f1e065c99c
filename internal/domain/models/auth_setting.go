package models

// AuthSetting 升级授权共享PIN的存储记录，单行表。
// PIN 仅存 bcrypt 哈希；轮换只影响之后的验证，不回溯作废已签发的令牌。
type AuthSetting struct {
	BaseModel
	PinHash string `gorm:"type:varchar(100);not null" json:"-"`
}
