// File: internal/service/password.go
package service

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// HashPassword 接收明文密碼，回傳 bcrypt 哈希字串
func HashPassword(password string) (string, error) {
	hashBytes, err := bcryptGenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// ComparePassword 比對明文密碼與 bcrypt 哈希，成功回傳 nil，失敗則回傳錯誤
func ComparePassword(hash, password string) error {
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password))
}

var (
	dummyHashOnce sync.Once
	dummyHash     string
)

// burnCompare 在 email 不存在時仍做一次 bcrypt 比對，讓兩種登入失敗花費相同時間
func burnCompare(password string) {
	dummyHashOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
		if err == nil {
			dummyHash = string(h)
		}
	})
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
