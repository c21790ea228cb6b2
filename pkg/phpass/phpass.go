// Package phpass 校验 WordPress 用户密码哈希
//
// 支持:
//   - $P$ / $H$ portable 哈希（迭代 md5）
//   - $2a$ / $2b$ / $2y$ bcrypt
//   - $wp$2y$ bcrypt(base64(HMAC-SHA384("wp-sha384", password)))
package phpass

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const itoa64 = "./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	minCountLog2 = 7
	maxCountLog2 = 30
	saltLen      = 8

	portableHashLen = 34
	wpPrefix        = "$wp"
	wpHMACKey       = "wp-sha384"
)

var (
	ErrInvalidSalt  = errors.New("phpass: salt must be 8 characters")
	ErrInvalidCount = errors.New("phpass: iteration count log2 out of range")
)

// CheckPassword 校验明文密码与 WordPress 哈希是否匹配
// 不认识的格式一律返回 false
func CheckPassword(password, hash string) bool {
	switch {
	case strings.HasPrefix(hash, "$P$"), strings.HasPrefix(hash, "$H$"):
		computed, err := cryptPortable(password, hash)
		if err != nil {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1

	case strings.HasPrefix(hash, wpPrefix+"$2"):
		return bcrypt.CompareHashAndPassword([]byte(hash[len(wpPrefix):]), []byte(preHash(password))) == nil

	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	}
	return false
}

// HashPortable 生成 $P$ portable 哈希
func HashPortable(password, salt string, countLog2 int) (string, error) {
	if len(salt) != saltLen {
		return "", ErrInvalidSalt
	}
	if countLog2 < minCountLog2 || countLog2 > maxCountLog2 {
		return "", ErrInvalidCount
	}
	setting := "$P$" + string(itoa64[countLog2]) + salt
	return cryptPortable(password, setting)
}

// cryptPortable 按 setting 中的迭代次数与 salt 计算哈希
func cryptPortable(password, setting string) (string, error) {
	if len(setting) < 12 {
		return "", ErrInvalidSalt
	}

	countLog2 := strings.IndexByte(itoa64, setting[3])
	if countLog2 < minCountLog2 || countLog2 > maxCountLog2 {
		return "", ErrInvalidCount
	}
	count := 1 << uint(countLog2)
	salt := setting[4:12]

	sum := md5.Sum([]byte(salt + password))
	h := sum[:]
	for i := 0; i < count; i++ {
		next := md5.Sum(append(h, password...))
		h = next[:]
	}

	out := setting[:12] + encode64(h, md5.Size)
	if len(out) != portableHashLen {
		return "", ErrInvalidSalt
	}
	return out, nil
}

// encode64 phpass 自定义 base64（低位在前）
func encode64(input []byte, count int) string {
	var sb strings.Builder
	i := 0
	for i < count {
		value := int(input[i])
		i++
		sb.WriteByte(itoa64[value&0x3f])
		if i < count {
			value |= int(input[i]) << 8
		}
		sb.WriteByte(itoa64[(value>>6)&0x3f])
		if i >= count {
			break
		}
		i++
		if i < count {
			value |= int(input[i]) << 16
		}
		sb.WriteByte(itoa64[(value>>12)&0x3f])
		if i >= count {
			break
		}
		i++
		sb.WriteByte(itoa64[(value>>18)&0x3f])
	}
	return sb.String()
}

// preHash $wp 变体在 bcrypt 之前的处理
func preHash(password string) string {
	mac := hmac.New(sha512.New384, []byte(wpHMACKey))
	mac.Write([]byte(password))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
