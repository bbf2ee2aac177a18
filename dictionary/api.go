// dictionary/api.go
package dictionary

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/wordchain/gameserver/logger"
)

// APIValidator looks a word up in the national Korean dictionary API with an
// exact-match query. Any failure (transport, status, decode) is reported as
// "not a word": the game treats a broken dictionary conservatively.
type APIValidator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewAPIValidator(baseURL, apiKey string, timeout time.Duration) *APIValidator {
	return &APIValidator{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// searchResponse 국어사전 API 응답에서 필요한 부분만 파싱한다.
type searchResponse struct {
	Channel struct {
		Total json.Number `json:"total"`
		Item  []struct {
			Sense struct {
				Definition string `json:"definition"`
			} `json:"sense"`
		} `json:"item"`
	} `json:"channel"`
}

// Validate implements game.WordValidator.
func (v *APIValidator) Validate(word string) (bool, string) {
	query := url.Values{}
	query.Set("key", v.apiKey)
	query.Set("q", word)
	query.Set("req_type", "json")
	query.Set("method", "exact")

	resp, err := v.client.Get(fmt.Sprintf("%s/search.do?%s", v.baseURL, query.Encode()))
	if err != nil {
		logger.Log.Warnf("dictionary lookup for %q failed: %v", word, err)
		return false, ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Warnf("dictionary lookup for %q returned status %d", word, resp.StatusCode)
		return false, ""
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Log.Warnf("dictionary response for %q unparseable: %v", word, err)
		return false, ""
	}

	total, err := payload.Channel.Total.Int64()
	if err != nil || total <= 0 {
		return false, ""
	}

	definition := ""
	if len(payload.Channel.Item) > 0 {
		definition = payload.Channel.Item[0].Sense.Definition
	}
	return true, definition
}
