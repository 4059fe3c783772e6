package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePlate(t *testing.T) {
	assert.NoError(t, ValidatePlate("ABC1D23"))
	assert.NoError(t, ValidatePlate("abc-1234"))
	assert.Error(t, ValidatePlate(""))
	assert.Error(t, ValidatePlate("AB1234"))
	assert.Error(t, ValidatePlate("ABCD123"))
}

func TestValidateCPF(t *testing.T) {
	assert.NoError(t, ValidateCPF("123.456.789-00"))
	assert.NoError(t, ValidateCPF("12345678900"))
	assert.Error(t, ValidateCPF("1234"))
	assert.Error(t, ValidateCPF(""))
}

func TestValidateUF(t *testing.T) {
	assert.NoError(t, ValidateUF("sp"))
	assert.NoError(t, ValidateUF("RJ"))
	assert.Error(t, ValidateUF("XX"))
}

func TestValidateContact(t *testing.T) {
	assert.NoError(t, ValidateEmail("maria.souza@example.com"))
	assert.Error(t, ValidateEmail("maria@"))
	assert.NoError(t, ValidatePhone("(11) 98888-7777"))
	assert.Error(t, ValidatePhone("1234"))
	assert.NoError(t, ValidateName("Ana"))
	assert.Error(t, ValidateName("Al"))
}
