// Package secrets stores the IMAP password in the OS keychain so it
// never lands in the YAML config or the environment.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"jobsearch-engine/internal/config"
)

const KeyringService = "jobsearch"

func GetIMAPPassword(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	pw, err := keyring.Get(KeyringService, account)
	if err != nil {
		return "", fmt.Errorf("imap password not in keychain: %w", err)
	}
	if strings.TrimSpace(pw) == "" {
		return "", errors.New("imap password in keychain is empty")
	}
	return pw, nil
}

func SetIMAPPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

func DeleteIMAPPassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

// IMAPKeyringAccount derives the keychain account name from the mail
// settings, so switching accounts never reuses a stale secret.
func IMAPKeyringAccount(cfg config.Config) string {
	return fmt.Sprintf("imap:%s@%s", cfg.Email.Username, cfg.Email.IMAPHost)
}
