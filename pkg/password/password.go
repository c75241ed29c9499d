package password

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Symbols conjunto fijo de símbolos aceptados por la política.
const Symbols = "@$!%*?&"

// MinLength largo mínimo exigido por la política. No hay largo máximo:
// el password nunca se trunca antes de hashear.
const MinLength = 8

// IsAcceptable aplica la política de complejidad: largo >= 8, al menos una
// mayúscula, una minúscula, un dígito y un símbolo del conjunto fijo.
// Es un predicado puro; se aplica en registro y en cambio de password.
func IsAcceptable(pw string) bool {
	if len(pw) < MinLength {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case isSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

func isSymbol(r rune) bool {
	for _, s := range Symbols {
		if r == s {
			return true
		}
	}
	return false
}

// Hash genera el hash bcrypt del password (salt interno embebido en la salida,
// cada llamada produce un hash distinto para la misma entrada).
func Hash(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify compara el password plano contra el hash almacenado en tiempo constante.
func Verify(pw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// dummyHash es un hash bcrypt válido de un valor descartable. Login lo compara
// cuando el email no existe, para que "email desconocido" y "password incorrecto"
// cuesten lo mismo y no se pueda enumerar cuentas por timing.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// VerifyDummy ejecuta una comparación bcrypt contra un hash fijo y siempre
// devuelve false. Úsese en el camino "cuenta inexistente" del login.
func VerifyDummy(pw string) bool {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(pw))
	return false
}
