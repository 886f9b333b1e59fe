package query

import (
	"strings"

	"github.com/itchan-dev/nanabbs/internal/domain"
	internal_errors "github.com/itchan-dev/nanabbs/internal/errors"
)

// shape is the lexical form of a segment. Classify checks them in declaration order.
type shape int

const (
	shapeLatest shape = iota // l123
	shapeNumber              // 123
	shapeRange               // 12-34, 12-, -34, -
	shapeOther
)

type token struct {
	shape shape
	left  string // digits of lN, N, or the range start
	right string // range end
}

func lex(segment string) token {
	switch {
	case len(segment) > 1 && segment[0] == 'l' && isDigits(segment[1:]):
		return token{shape: shapeLatest, left: segment[1:]}
	case isDigits(segment):
		return token{shape: shapeNumber, left: segment}
	}

	if start, end, ok := strings.Cut(segment, "-"); ok {
		if (start == "" || isDigits(start)) && (end == "" || isDigits(end)) {
			return token{shape: shapeRange, left: start, right: end}
		}
	}
	return token{shape: shapeOther}
}

// Classify resolves a query segment into a retrieval spec.
// Unrecognised segments, including the empty one, select every response.
func Classify(segment string) (domain.RetrievalSpec, error) {
	tok := lex(segment)
	switch tok.shape {
	case shapeLatest:
		return domain.Latest(parseCount(tok.left)), nil

	case shapeNumber:
		n, err := ParseResponseNumber(tok.left)
		if err != nil {
			return domain.RetrievalSpec{}, invalidQuery(segment, err)
		}
		return domain.Single(n), nil

	case shapeRange:
		if tok.left == "" && tok.right == "" {
			return domain.All(), nil
		}
		start, err := parseBound(tok.left)
		if err != nil {
			return domain.RetrievalSpec{}, invalidQuery(segment, err)
		}
		end, err := parseBound(tok.right)
		if err != nil {
			return domain.RetrievalSpec{}, invalidQuery(segment, err)
		}
		// start > end is kept as is, storage answers it with an empty window
		return domain.Range(start, end), nil

	default:
		return domain.All(), nil
	}
}

func parseBound(digits string) (domain.Bound, error) {
	if digits == "" {
		return domain.Open(), nil
	}
	n, err := ParseResponseNumber(digits)
	if err != nil {
		return domain.Bound{}, err
	}
	return domain.At(n), nil
}

func invalidQuery(segment string, err error) error {
	return internal_errors.Wrap(internal_errors.InvalidQuery, err, "invalid query %q: response numbers must be between 1 and %d", segment, MaxResponseNumber)
}
