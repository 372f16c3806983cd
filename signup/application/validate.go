package application

import (
	"regexp"
	"strings"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

// local + "@" + domínio + "." + TLD com pelo menos 2 caracteres e sem ponto.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@.]{2,}$`)

// Validate checa o formato do e-mail. A entrada é aparada antes da checagem.
func Validate(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrEmptyEmail
	}
	if !emailPattern.MatchString(email) {
		return domain.ErrInvalidFormat
	}
	return nil
}
