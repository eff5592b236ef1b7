package helpers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

func deriveKey(secret string) []byte {
	hash := sha256.Sum256([]byte(secret))
	return hash[:]
}

var (
	secretKeyOnce sync.Once
	secretKeyVal  []byte
)

// secretKey resolves the derived key on first use so a JWT_SECRET
// loaded from .env after package init is still picked up.
func secretKey() []byte {
	secretKeyOnce.Do(func() {
		secretKeyVal = deriveKey(os.Getenv("JWT_SECRET"))
	})
	return secretKeyVal
}

// EncryptExternalID packs an event/user pair into an opaque token used
// as the payment provider's external invoice ID.
func EncryptExternalID(eventID, userID uuid.UUID) string {
	plaintext := fmt.Sprintf("%s|%s", eventID.String(), userID.String())

	block, _ := aes.NewCipher(secretKey())
	gcm, _ := cipher.NewGCM(block)
	nonce := make([]byte, gcm.NonceSize())
	io.ReadFull(rand.Reader, nonce)

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(ciphertext)
}

func DecryptExternalID(encrypted string) (eventID, userID uuid.UUID, err error) {
	data, err := base64.URLEncoding.DecodeString(encrypted)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	block, err := aes.NewCipher(secretKey())
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid cipher text")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	parts := strings.Split(string(plaintext), "|")
	if len(parts) != 2 {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid plaintext format")
	}

	eventID, err = uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid event ID format")
	}

	userID, err = uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid user ID format")
	}

	return eventID, userID, nil
}

// ExtractExternalID strips the invoice number prefix (EVH-<unix>-) and
// decrypts the remainder.
func ExtractExternalID(externalID string) (uuid.UUID, uuid.UUID, error) {
	parts := strings.Split(externalID, "-")
	if len(parts) < 3 {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid external ID format")
	}

	encryptedPart := strings.Join(parts[2:], "-")

	return DecryptExternalID(encryptedPart)
}
