// Package version knows the running release and can ask the release feed
// whether a newer one exists.
package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Current is the running release. Overridden at build time with
// -ldflags "-X .../internal/version.Current=x.y.z".
var Current = "0.14.0"

type Checker struct {
	client *http.Client
	url    string
}

func NewChecker(url string) *Checker {
	return &Checker{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
	}
}

type releaseResponse struct {
	TagName string `json:"tag_name"`
}

// Latest fetches the most recent release tag, without the leading "v".
func (c *Checker) Latest() (string, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("release feed returned non-success status: %d", resp.StatusCode)
	}

	var release releaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", fmt.Errorf("failed to decode release response: %w", err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("release response carried no tag name")
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}

// IsNewer compares two dotted version strings numerically, segment by
// segment. Unparseable segments compare as zero.
func IsNewer(current, candidate string) bool {
	cur := strings.Split(current, ".")
	cand := strings.Split(candidate, ".")

	n := len(cur)
	if len(cand) > n {
		n = len(cand)
	}
	for i := 0; i < n; i++ {
		a := segment(cur, i)
		b := segment(cand, i)
		if b != a {
			return b > a
		}
	}
	return false
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(parts[i])
	if err != nil {
		log.Debug().Str("segment", parts[i]).Msg("Unparseable version segment treated as 0")
		return 0
	}
	return v
}
