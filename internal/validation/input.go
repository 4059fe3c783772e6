package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinNameLength    = 3
	MaxNameLength    = 120
	MinPhoneDigits   = 10
	MaxPhoneDigits   = 13
	CPFDigits        = 11
	MaxSummaryLength = 2000
	MaxCityLength    = 100
)

var (
	plateRegex  = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z0-9][0-9]{2}$`)
	emailLocal  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomain = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

var federativeUnits = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
	"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s deve ter pelo menos %d caracteres", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s deve ter no máximo %d caracteres", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s é obrigatório", fieldName)
	}
	return nil
}

// NormalizePlate приводит номер к верхнему регистру без дефисов и пробелов.
func NormalizePlate(plate string) string {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	return strings.NewReplacer("-", "", " ", "").Replace(plate)
}

// ValidatePlate принимает старый формат ABC1234 и формат Mercosul ABC1D23.
func ValidatePlate(plate string) error {
	normalized := NormalizePlate(plate)
	if normalized == "" {
		return fmt.Errorf("placa é obrigatória")
	}
	if !plateRegex.MatchString(normalized) {
		return fmt.Errorf("placa inválida: %s", plate)
	}
	return nil
}

// Digits оставляет в строке только цифры.
func Digits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCPF проверяет количество цифр; маска допускается.
func ValidateCPF(cpf string) error {
	digits := Digits(cpf)
	if digits == "" {
		return fmt.Errorf("CPF é obrigatório")
	}
	if len(digits) != CPFDigits {
		return fmt.Errorf("CPF deve conter %d dígitos", CPFDigits)
	}
	return nil
}

// ValidateUF проверяет код штата.
func ValidateUF(uf string) error {
	if _, ok := federativeUnits[strings.ToUpper(strings.TrimSpace(uf))]; !ok {
		return fmt.Errorf("UF inválida: %s", uf)
	}
	return nil
}

// ValidatePhone проверяет телефон с кодом города.
func ValidatePhone(phone string) error {
	digits := Digits(phone)
	if len(digits) < MinPhoneDigits || len(digits) > MaxPhoneDigits {
		return fmt.Errorf("telefone deve conter entre %d e %d dígitos", MinPhoneDigits, MaxPhoneDigits)
	}
	return nil
}

// ValidateName проверяет имя человека.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("nome é obrigatório")
	}
	return ValidateLength("nome", name, MinNameLength, MaxNameLength)
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email é obrigatório")
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("formato de email inválido")
	}

	localPart, domainPart := parts[0], parts[1]
	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("formato de email inválido")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("formato de email inválido")
	}
	if !emailLocal.MatchString(localPart) || !emailDomain.MatchString(domainPart) {
		return fmt.Errorf("formato de email inválido")
	}

	return nil
}

// SanitizeString удаляет управляющие символы, кроме переводов строк и табуляции.
func SanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
