package auth

import (
	"encoding/json"
	"errors"

	"github.com/zalando/go-keyring"

	"github.com/ccarocean/copernicus-sync/internal/utils"
)

const serviceName = "copsync"

// ErrNotFound reports that no credentials are stored for a host.
var ErrNotFound = errors.New("no stored credentials")

// Credentials is one FTP login, keyed by the host it belongs to.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Save stores credentials for a host in the system keyring.
func Save(host string, creds Credentials) error {
	if creds.Username == "" {
		return utils.NewAppError(utils.NewCLIError(utils.ErrCodeInvalidArgument,
			"username must not be empty").Build())
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return utils.WrapError(utils.ErrCodeCredentialStore, "cannot encode credentials", err)
	}
	if err := keyring.Set(serviceName, host, string(data)); err != nil {
		return utils.WrapError(utils.ErrCodeCredentialStore, "cannot write to system keyring", err)
	}
	return nil
}

// Load returns the stored credentials for a host, or ErrNotFound.
func Load(host string) (Credentials, error) {
	data, err := keyring.Get(serviceName, host)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Credentials{}, ErrNotFound
		}
		return Credentials{}, utils.WrapError(utils.ErrCodeCredentialStore, "cannot read from system keyring", err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(data), &creds); err != nil {
		return Credentials{}, utils.WrapError(utils.ErrCodeCredentialStore, "stored credentials are corrupt", err)
	}
	return creds, nil
}

// Delete removes the stored credentials for a host. Deleting credentials
// that do not exist is not an error.
func Delete(host string) error {
	err := keyring.Delete(serviceName, host)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return utils.WrapError(utils.ErrCodeCredentialStore, "cannot delete from system keyring", err)
	}
	return nil
}
