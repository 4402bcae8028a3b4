package http

import (
	"fmt"
	"net/url"
)

// AppendQuery merges query parameters into a URL, preserving any query
// already present in the raw URL (e.g. "?operation=update").
func AppendQuery(rawURL string, queryParams map[string]string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("error parsing URL: %w", err)
	}

	q := parsedURL.Query()
	for key, value := range queryParams {
		q.Set(key, value)
	}
	parsedURL.RawQuery = q.Encode()

	return parsedURL.String(), nil
}
