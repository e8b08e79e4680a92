package repository

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/debemdeboas/blog-wizard/internal/model"
)

const (
	idPrefix       = "blog_"
	idSuffixLength = 9
	idAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewPostID builds "blog_<unix millis>_<9 base36 chars>". Two ids minted in
// the same millisecond collide with probability 36^-9; the store still
// checks for an existing id before accepting one.
func NewPostID(now time.Time) model.PostID {
	var b strings.Builder
	b.Grow(len(idPrefix) + 14 + idSuffixLength)

	b.WriteString(idPrefix)
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('_')
	for i := 0; i < idSuffixLength; i++ {
		b.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))])
	}

	return model.PostID(b.String())
}
