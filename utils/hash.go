package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// BytesMD5 计算字节数组MD5
func BytesMD5(data []byte) string {
	hash := md5.New()
	hash.Write(data)
	return hex.EncodeToString(hash.Sum(nil))
}

// ETag 返回强校验 ETag 值
func ETag(data []byte) string {
	return `"` + BytesMD5(data) + `"`
}
