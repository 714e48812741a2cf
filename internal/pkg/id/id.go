package id

import (
	"github.com/google/uuid"
)

// New 生成新的UUID（string格式），用于运行、文档等持久化实体
// 确定性的领域ID（scene_001、角色md5前缀等）由 storytools 自行计算
func New() string {
	return uuid.New().String()
}

// IsValid 验证UUID格式是否有效
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
