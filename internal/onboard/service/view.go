package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/talentwire/onboard/internal/onboard/domain"
	"github.com/talentwire/onboard/pkg/cryptox"
	"github.com/talentwire/onboard/pkg/slogx"
)

// encryptedSectionFields names the document keys that hold EncryptedField
// values, per section.
var encryptedSectionFields = map[domain.Section][]string{
	domain.SectionPersonal: {"aadhaar", "pan", "bankAccount"},
	domain.SectionPF:       {"uan", "pfNumber"},
}

// decryptSectionView renders a stored section document with its encrypted
// fields replaced by plaintext. An undecryptable field becomes a blank string
// with a warning; the rest of the document is still served.
func decryptSectionView(ctx context.Context, cipher *cryptox.FieldCipher, section domain.Section, payload []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}

	for _, field := range encryptedSectionFields[section] {
		raw, ok := m[field]
		if !ok {
			continue
		}

		var ef cryptox.EncryptedField
		b, err := json.Marshal(raw)
		if err == nil {
			err = json.Unmarshal(b, &ef)
		}
		if err != nil {
			m[field] = ""
			continue
		}

		plain, ok := cipher.Decrypt(ef)
		if !ok {
			slogx.FromContext(ctx).Warn("stored field failed to decrypt, serving blank",
				slog.String("section", section.String()),
				slog.String("field", field),
			)
			plain = ""
		}
		m[field] = plain
	}
	return m, nil
}
