package render

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ds124wfegd/cardforge/internal/entity"
)

// Fingerprint hashes every field that affects the rendered pixels, plus the template.
// Identity, print amount and the cache itself are excluded.
func Fingerprint(card *entity.Card, tpl Template) string {
	c := card.WithoutCache()
	c.ID = ""
	c.Amount = nil
	c.CreatedAt = time.Time{}
	payload := struct {
		Template string       `json:"template"`
		Card     *entity.Card `json:"card"`
	}{tpl.Name, c}
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
