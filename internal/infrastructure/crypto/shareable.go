package crypto

import (
	"encoding/base64"
	"fmt"
)

// EncodeShareableID turns an account id into the identifier users hand to
// each other for transfers. It obscures the id but is not a secret.
func EncodeShareableID(accountID string) string {
	return base64.StdEncoding.EncodeToString([]byte(accountID))
}

func DecodeShareableID(shareableID string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(shareableID)
	if err != nil {
		return "", fmt.Errorf("invalid shareable id: %w", err)
	}
	return string(raw), nil
}
