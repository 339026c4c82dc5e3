package validators

import "errors"

var ErrPasswordsMismatch = errors.New("passwords do not match")

func PasswordsMatchValidator(password, confirm string) error {
	if password != confirm {
		return ErrPasswordsMismatch
	}

	return nil
}
