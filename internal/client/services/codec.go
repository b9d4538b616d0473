package services

import (
	"encoding/json"
	"strings"

	"github.com/altronvault/altron/internal/client/models"
	"github.com/altronvault/altron/internal/common"
	"github.com/altronvault/altron/internal/cryptox"
)

// EncodeStore serializes the ordered record list to JSON and seals it into
// a single envelope string, ready to be written as passwords.enc.
func EncodeStore(key []byte, records []models.CredentialRecord) (string, error) {
	if records == nil {
		records = []models.CredentialRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return cryptox.Seal(key, data)
}

// DecodeStore opens a store envelope and parses the record list. An empty
// envelope decodes to an empty list, not an error. A successful open that
// yields unparsable JSON is reported as corrupted data.
func DecodeStore(key []byte, envelope string) ([]models.CredentialRecord, error) {
	if strings.TrimSpace(envelope) == "" {
		return []models.CredentialRecord{}, nil
	}

	plaintext, err := cryptox.Open(key, envelope)
	if err != nil {
		return nil, err
	}

	var records []models.CredentialRecord
	if err := json.Unmarshal(plaintext, &records); err != nil {
		return nil, common.ErrorDecryption
	}
	if records == nil {
		records = []models.CredentialRecord{}
	}
	return records, nil
}
