package intarr

import (
	"errors"
	"strconv"
	"strings"
)

const delimiter = ";"

// Tokenize splits raw on ';', trims ASCII spaces from every token and parses
// the non-empty ones as base-10 integers. Only ' ' is trimmed; a tab or
// newline left in a token makes it invalid.
func Tokenize(raw string) ([]int, error) {
	fields := strings.Split(raw, delimiter)
	numbers := make([]int, 0, len(fields))

	for i, field := range fields {
		token := strings.Trim(field, " ")
		if token == "" {
			continue
		}

		n, err := strconv.Atoi(token)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) {
				err = numErr.Err
			}
			return nil, &ParseError{Token: token, Position: i + 1, Err: err}
		}
		numbers = append(numbers, n)
	}

	return numbers, nil
}
