package mugloar

import (
	"encoding/base64"
	"strings"
)

// decodeText reverses the cipher the server applied to a message's text
// fields. ROT13 is its own inverse; base64 failures surface as protocol
// errors at the call site.
func decodeText(c Cipher, s string) (string, error) {
	switch c {
	case CipherBase64:
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	case CipherROT13:
		return rot13(s), nil
	default:
		return s, nil
	}
}

func rot13(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			r = 'a' + (r-'a'+13)%26
		case r >= 'A' && r <= 'Z':
			r = 'A' + (r-'A'+13)%26
		}
		b.WriteRune(r)
	}
	return b.String()
}

// cipherOf maps the wire "encrypted" field (null, 1 or 2) to a Cipher.
func cipherOf(encrypted *int) Cipher {
	if encrypted == nil {
		return CipherPlain
	}
	switch *encrypted {
	case 2:
		return CipherROT13
	default:
		return CipherBase64
	}
}
