package models

import (
	"time"

	"gorm.io/gorm"
)

// Visitor 对应于数据库中的 visitors 表，代表一个已知访客的身份档案。
// QRPayload 在创建时由二维码令牌编码器派生并持久化，
// 服务端通过该列完成 载荷→访客 的权威反向查找，客户端不可逆推。
type Visitor struct {
	ID          uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName   string  `json:"firstName" gorm:"column:first_name;not null;size:255"`
	LastName    string  `json:"lastName" gorm:"column:last_name;size:255"`
	PhoneNumber string  `json:"phoneNumber" gorm:"column:phone_number;unique;not null;size:50;index"`
	QRPayload   string  `json:"-" gorm:"column:qr_payload;size:12;index"`

	// VerificationCount 是服务端重新统计得出的独立人脸核验次数，
	// 不接受客户端提交的计数。
	VerificationCount int  `json:"verificationCount" gorm:"column:verification_count;not null;default:0"`
	// NeedsVerification 在计数达到阈值后置为 false，且是单向转换。
	NeedsVerification bool `json:"needsVerification" gorm:"column:needs_verification;not null;default:true"`

	CreatedAt time.Time      `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt time.Time      `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index" swaggertype:"string" format:"date-time"`
}

// TableName 指定 Visitor 结构体对应的数据库表名
func (Visitor) TableName() string {
	return "visitors"
}

// FullName 返回访客的完整姓名
func (v *Visitor) FullName() string {
	if v.LastName == "" {
		return v.FirstName
	}
	return v.FirstName + " " + v.LastName
}

// FaceVerification 对应于 face_verifications 表。
// 每行代表一名员工对一名访客的一次独立核验；(visitor, staff) 组合唯一，
// 因此同一员工重复提交不会使计数翻倍。
type FaceVerification struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	VisitorID   uint           `json:"visitorId" gorm:"column:visitor_id;not null;index:idx_visitor_staff,unique"`
	StaffUserID uint           `json:"staffUserId" gorm:"column:staff_user_id;not null;index:idx_visitor_staff,unique"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	DeletedAt   gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index" swaggertype:"string" format:"date-time"`
}

// TableName 指定 FaceVerification 结构体对应的数据库表名
func (FaceVerification) TableName() string {
	return "face_verifications"
}
