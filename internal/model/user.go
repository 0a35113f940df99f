package model

// User is a registered account. Password holds the obscured form.
type User struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Obscure reverses the characters of p.
//
// This is NOT hashing and provides no confidentiality: anyone who can read
// the stored board state can recover every password with Reveal. It exists
// only to keep passwords from being readable at a glance.
//
// Reversal is by rune, not by UTF-16 unit. Records written by the browser
// board with a password outside the BMP (an emoji, say) hold lone surrogates
// that decode to U+FFFD here, so Verify fails for those users.
func Obscure(p string) string {
	r := []rune(p)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// Reveal undoes Obscure
func Reveal(p string) string {
	return Obscure(p)
}
