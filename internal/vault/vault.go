// Package vault stores account secrets in the system keyring: the
// signed-in account id and any mail credentials the digest sender may
// need. Values never touch the config file on disk.
package vault

import (
	"fmt"
	"sort"

	"github.com/99designs/keyring"
)

const serviceName = "planhub"

// Well-known secret names.
const (
	// AccountKey holds the signed-in account id.
	AccountKey = "account"
	// MailPasswordKey holds the SMTP password for digest delivery.
	MailPasswordKey = "mail-password"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/planhub/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("planhub-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a secret by name from the system keyring.
func Get(name string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(name)
	if err != nil {
		return "", fmt.Errorf("getting key %q: %w", name, err)
	}

	return string(item.Data), nil
}

// Set stores a secret by name in the system keyring.
func Set(name string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   name,
		Data:  []byte(value),
		Label: serviceName + ": " + name,
	})
	if err != nil {
		return fmt.Errorf("setting key %q: %w", name, err)
	}

	return nil
}

// Delete removes a secret by name from the system keyring.
func Delete(name string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(name)
	if err != nil {
		return fmt.Errorf("deleting key %q: %w", name, err)
	}

	return nil
}

// List returns the stored key names, sorted.
func List() ([]string, error) {
	ring, err := openKeyring()
	if err != nil {
		return nil, err
	}

	names, err := ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}

	sort.Strings(names)
	return names, nil
}
