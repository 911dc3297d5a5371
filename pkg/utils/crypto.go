package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// encryptedTokenPrefix marks a token as encrypted at rest so the worker can
// tell an encrypted integration token apart from a plain page-scoped one.
const encryptedTokenPrefix = "enc:v1:"

func IsEncryptedToken(token string) bool {
	return strings.HasPrefix(token, encryptedTokenPrefix)
}

// EncryptToken seals the token with AES-GCM and returns the marked,
// base64-encoded blob.
func EncryptToken(token string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	_, err = io.ReadFull(rand.Reader, nonce)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	ciphertext := aesGCM.Seal(nil, nonce, []byte(token), nil)

	// Nonce travels with the ciphertext.
	finalData := append(nonce, ciphertext...)

	return encryptedTokenPrefix + base64.StdEncoding.EncodeToString(finalData), nil
}

// DecryptToken reverses EncryptToken. The input must carry the marker prefix.
func DecryptToken(encryptedData string, key []byte) (string, error) {
	if !IsEncryptedToken(encryptedData) {
		return "", errors.New("token is not in encrypted form")
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encryptedData, encryptedTokenPrefix))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return string(plaintext), nil
}
