// SPDX-License-Identifier: GPL-3.0-only

package tokencheck

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"locale-tracker/commons"
	"net/http"
	"strings"
	"time"
	"unicode"
)

const MinTokenLength = 16

var rangeAPIURL = "https://api.pwnedpasswords.com/range/"

// ValidateToken rejects operator-chosen API tokens that are short, use a
// single character class, or appear in known breach corpora.
func ValidateToken(ctx context.Context, token string) error {
	if len([]rune(token)) < MinTokenLength {
		return fmt.Errorf("token must be at least %d characters long", MinTokenLength)
	}
	if strings.ContainsFunc(token, unicode.IsSpace) {
		return errors.New("token must not contain whitespace")
	}
	if characterClasses(token) < 2 {
		return errors.New("token must mix at least two of letters, digits and symbols")
	}

	if commons.GetEnv("PWNED_TOKENS_CHECK", "true") == "true" {
		pwned, err := checkTokenPwned(ctx, token)
		if err != nil {
			commons.Logger.Error("Error checking pwned tokens: ", err)
		}
		if pwned {
			return errors.New("token has been found in data breaches (pwned); choose a different one")
		}
	}

	return nil
}

func checkTokenPwned(ctx context.Context, token string) (bool, error) {
	hasher := sha1.New()
	hasher.Write([]byte(token))
	hash := strings.ToUpper(hex.EncodeToString(hasher.Sum(nil)))

	prefix, suffix := hash[:5], hash[5:]

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rangeAPIURL+prefix, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("HIBP API request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("HIBP API returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read HIBP response: %w", err)
	}

	for _, line := range strings.Split(string(body), "\n") {
		if parts := strings.Split(line, ":"); len(parts) == 2 {
			if strings.TrimSpace(parts[0]) == suffix {
				return true, nil
			}
		}
	}
	return false, nil
}

func characterClasses(s string) int {
	var letter, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsSymbol(r) || unicode.IsPunct(r):
			symbol = true
		}
	}
	n := 0
	for _, ok := range []bool{letter, digit, symbol} {
		if ok {
			n++
		}
	}
	return n
}
