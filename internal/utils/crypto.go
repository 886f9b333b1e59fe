package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/itchan-dev/nanabbs/internal/domain"
)

// PosterIdLength is the number of characters shown after "ID:".
const PosterIdLength = 8

var jst = time.FixedZone("JST", 9*60*60)

func generatePepper() string {
	return uuid.New().String() + "-" + uuid.New().String()
}

// Hasher derives the daily poster id. The same address gets the same id for
// one JST calendar day and a new one the next.
type Hasher struct {
	pepper []byte
}

// NewHasher uses pepper when set, otherwise a random one living as long as the process.
func NewHasher(pepper string) *Hasher {
	if pepper == "" {
		pepper = generatePepper()
	}
	return &Hasher{pepper: []byte(pepper)}
}

func (h *Hasher) HashSHA256(input string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(input))
	return mac.Sum(nil)
}

func (h *Hasher) PosterId(ip string, at time.Time) domain.HashId {
	day := at.In(jst).Format("2006-01-02")
	sum := h.HashSHA256(strings.ToLower(strings.TrimSpace(ip)) + "|" + day)
	return base64.StdEncoding.EncodeToString(sum)[:PosterIdLength]
}
